package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
	"github.com/san-kum/tiltball/internal/metrics"
	"github.com/san-kum/tiltball/internal/render"
	"github.com/san-kum/tiltball/internal/sensor"
)

func newTestModel(src sensor.Source) model {
	return newModel(Options{
		Session: engine.NewSession(ball.DefaultParams()),
		Source:  src,
		Period:  20 * time.Millisecond,
		Theme:   render.ThemeMono,
		Metrics: []engine.Metric{metrics.NewBounces()},
	})
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func TestResizeReportsViewport(t *testing.T) {
	m := newTestModel(sensor.NewManual(nil))
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 24})

	want := ball.Bounds{Width: 40 * 2 * PixelsPerDot, Height: 20 * 4 * PixelsPerDot}
	if m.bounds != want {
		t.Errorf("bounds = %+v, want %+v", m.bounds, want)
	}
	snap := m.session.Snapshot()
	if snap.Position != want.Center() {
		t.Errorf("ball not centred: %v", snap.Position)
	}
}

func TestTickStepsManualTilt(t *testing.T) {
	now := int64(0)
	manual := sensor.NewManual(func() int64 { return now })
	m := newTestModel(manual)
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 24})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if ax, ay := manual.Tilt(); ax != 2 || ay != 0 {
		t.Fatalf("tilt = (%v, %v)", ax, ay)
	}

	start := m.bounds.Center()
	for i := 0; i < 10; i++ {
		m = update(t, m, tickMsg(time.Now()))
		now += 20
	}
	if m.frame.Position.X <= start.X {
		t.Errorf("ball should roll right, at %v", m.frame.Position)
	}
	if m.frame.Position.Y != start.Y {
		t.Errorf("ball should not move vertically, at %v", m.frame.Position)
	}
}

func TestPauseStopsStepping(t *testing.T) {
	now := int64(0)
	manual := sensor.NewManual(func() int64 { return now })
	manual.SetTilt(5, 5)
	m := newTestModel(manual)
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 24})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})

	for i := 0; i < 5; i++ {
		now += 20
		m = update(t, m, tickMsg(time.Now()))
	}
	if !m.paused {
		t.Fatal("expected paused")
	}
	if m.session.Snapshot().HasSample {
		t.Error("no samples should be applied while paused")
	}
}

func TestResumeAfterPauseDoesNotJump(t *testing.T) {
	now := int64(0)
	manual := sensor.NewManual(func() int64 { return now })
	manual.SetTilt(1, 0)
	m := newTestModel(manual)
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 24})

	for i := 0; i < 3; i++ {
		m = update(t, m, tickMsg(time.Now()))
		now += 20
	}
	before := m.session.Snapshot()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	now += 10_000
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.paused {
		t.Fatal("expected running again")
	}
	m = update(t, m, tickMsg(time.Now()))

	after := m.session.Snapshot()
	if after.Position != before.Position {
		t.Errorf("ball jumped after resume: %v -> %v", before.Position, after.Position)
	}
	if after.Velocity != before.Velocity {
		t.Errorf("velocity changed after resume: %v -> %v", before.Velocity, after.Velocity)
	}
	if after.Collision != ball.NoCollision {
		t.Errorf("unexpected bounce %v", after.Collision)
	}
}

type brokenSource struct{}

func (brokenSource) Next(ctx context.Context) (sensor.RawSample, error) {
	return sensor.RawSample{}, errors.New("sensor gone")
}

func TestSourceErrorEndsTicking(t *testing.T) {
	m := newTestModel(brokenSource{})
	m = update(t, m, tea.WindowSizeMsg{Width: 42, Height: 24})

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(model)
	if cmd != nil {
		t.Error("expected ticking to stop")
	}
	if !m.done || m.err == nil {
		t.Errorf("expected error state, got done=%v err=%v", m.done, m.err)
	}
	if !strings.Contains(m.View(), "sensor gone") {
		t.Error("view should show the sensor error")
	}
}

func TestTooSmallTerminal(t *testing.T) {
	m := newTestModel(sensor.NewManual(nil))
	m = update(t, m, tea.WindowSizeMsg{Width: 6, Height: 6})
	if !strings.Contains(m.View(), "too small") {
		t.Errorf("unexpected view %q", m.View())
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.session.Snapshot().HasSample {
		t.Error("should not step in a viewport the ball does not fit")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(sensor.NewManual(nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
