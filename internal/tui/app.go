// Package tui hosts the ball in a terminal using bubbletea. The terminal
// window is the viewport; resizing it reports a new viewport to the
// integrator, which recentres the ball.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
	"github.com/san-kum/tiltball/internal/logging"
	"github.com/san-kum/tiltball/internal/render"
	"github.com/san-kum/tiltball/internal/sensor"
	"go.uber.org/zap"
)

const (
	// PixelsPerDot is the number of viewport units per braille sub-pixel.
	PixelsPerDot = 10.0
	tiltStep     = 1.0
	chromeRows   = 4
	chromeCols   = 2
)

var (
	help  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	alert = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
)

type tickMsg time.Time

type Options struct {
	Session *engine.Session
	Source  sensor.Source
	Period  time.Duration
	Theme   render.Theme
	Metrics []engine.Metric
	Log     *zap.Logger
}

type model struct {
	session *engine.Session
	src     sensor.Source
	manual  *sensor.Manual
	term    *render.Terminal
	metrics []engine.Metric
	log     *zap.Logger
	period  time.Duration

	bounds  ball.Bounds
	frame   engine.Frame
	paused  bool
	done    bool
	err     error
	bounces int

	width, height int
}

func newModel(o Options) model {
	if o.Period <= 0 {
		o.Period = sensor.DefaultPeriodMs * time.Millisecond
	}
	o.Log = logging.OrNop(o.Log)
	manual, _ := o.Source.(*sensor.Manual)
	return model{
		session: o.Session,
		src:     o.Source,
		manual:  manual,
		term:    render.NewTerminal(io.Discard, 1, 1, 1, o.Theme),
		metrics: o.Metrics,
		log:     o.Log,
		period:  o.Period,
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, tea.ClearScreen
	case tickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m.step()
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	cols := width - chromeCols
	rows := height - chromeRows
	m.term.Resize(cols, rows)

	m.bounds = ball.Bounds{
		Width:  float64(max(cols, 1)*2) * PixelsPerDot,
		Height: float64(max(rows, 1)*4) * PixelsPerDot,
	}
	m.session.Resize(m.bounds.Width, m.bounds.Height)
	m.frame.Position = m.bounds.Center()
	m.log.Debug("viewport resized",
		zap.Float64("width", m.bounds.Width),
		zap.Float64("height", m.bounds.Height),
	)
}

func (m *model) fits() bool {
	return m.session.Ready() && m.session.Params().FitsIn(m.bounds)
}

func (m *model) step() {
	if !m.fits() {
		return
	}

	raw, err := m.src.Next(context.Background())
	if err != nil {
		m.done = true
		if !errors.Is(err, io.EOF) {
			m.err = err
			m.log.Error("sensor failed", zap.Error(err))
		}
		return
	}

	m.frame = m.session.Apply(sensor.Orient(raw))
	m.bounces += m.frame.Collision.Count()
	for _, mt := range m.metrics {
		mt.Observe(m.frame, m.bounds, m.session.Params().Radius)
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
		if !m.paused {
			m.session.ResetClock()
		}
	case "r":
		m.resize(m.width, m.height)
		return m, tea.ClearScreen
	}

	if m.manual == nil {
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		m.manual.Nudge(-tiltStep, 0)
	case "right", "l":
		m.manual.Nudge(tiltStep, 0)
	case "up", "k":
		m.manual.Nudge(0, -tiltStep)
	case "down", "j":
		m.manual.Nudge(0, tiltStep)
	case "0":
		m.manual.SetTilt(0, 0)
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "waiting for terminal size..."
	}
	if !m.fits() {
		return alert.Render(fmt.Sprintf("terminal too small for a ball of radius %.0f", m.session.Params().Radius))
	}

	var b strings.Builder
	b.WriteString(m.term.View(m.frame, m.bounds, m.session.Params().Radius))
	b.WriteString("\n")

	keys := "space pause · r recentre · q quit"
	if m.manual != nil {
		keys = "←↑↓→ tilt · 0 level · " + keys
	}
	state := fmt.Sprintf("bounces %d", m.bounces)
	for _, mt := range m.metrics {
		state += fmt.Sprintf(" · %s %.2f", mt.Name(), mt.Value())
	}
	if m.paused {
		state += " · paused"
	}
	if m.done {
		state += " · source finished"
	}
	b.WriteString(help.Render(state + " · " + keys))
	if m.err != nil {
		b.WriteString("\n" + alert.Render(m.err.Error()))
	}
	return b.String()
}

// Run starts the interactive terminal host and blocks until the user quits.
func Run(o Options) error {
	m := newModel(o)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
