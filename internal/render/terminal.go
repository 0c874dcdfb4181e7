package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Rasterize clears c and draws the viewport outline and the ball, scaled
// uniformly to fit the canvas.
func Rasterize(c *Canvas, b ball.Bounds, pos ball.Vec2, radius float64) {
	c.Clear()
	if !(b.Width > 0) || !(b.Height > 0) {
		return
	}

	pw, ph := c.PixelSize()
	s := math.Min(float64(pw-1)/b.Width, float64(ph-1)/b.Height)
	c.DrawRect(0, 0, int(b.Width*s), int(b.Height*s))

	if !pos.IsFinite() {
		return
	}
	c.FillCircle(int(math.Round(pos.X*s)), int(math.Round(pos.Y*s)), int(math.Round(radius*s)))
}

// Terminal draws frames to a terminal at a bounded frame rate.
type Terminal struct {
	out       io.Writer
	canvas    *Canvas
	theme     Theme
	frameRate int
	lastFrame time.Time
	now       func() time.Time
	started   bool
}

func NewTerminal(out io.Writer, cols, rows, frameRate int, theme Theme) *Terminal {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Terminal{
		out:       out,
		canvas:    NewCanvas(cols, rows),
		theme:     theme,
		frameRate: frameRate,
		now:       time.Now,
	}
}

// Resize replaces the canvas with one of cols x rows cells.
func (t *Terminal) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	t.canvas = NewCanvas(cols, rows)
}

// Draw renders f unless the previous frame was drawn too recently.
func (t *Terminal) Draw(f engine.Frame, b ball.Bounds, radius float64) error {
	now := t.now()
	if t.started && now.Sub(t.lastFrame) < time.Second/time.Duration(t.frameRate) {
		return nil
	}
	t.lastFrame = now

	prefix := clearScreen
	if !t.started {
		prefix = hideCursor + clearScreen
		t.started = true
	}
	_, err := io.WriteString(t.out, prefix+t.View(f, b, radius)+"\n")
	return err
}

// Close restores the cursor.
func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}
	_, err := io.WriteString(t.out, showCursor)
	return err
}

// View renders f as a styled string without throttling.
func (t *Terminal) View(f engine.Frame, b ball.Bounds, radius float64) string {
	Rasterize(t.canvas, b, f.Position, radius)

	field := t.theme.fieldStyle().Render(strings.Join(t.canvas.Lines(), "\n"))
	status := t.theme.statusStyle().Render(Status(f))
	return lipgloss.JoinVertical(lipgloss.Left, t.theme.panelStyle().Render(field), status)
}

// Status is a one-line summary of a frame.
func Status(f engine.Frame) string {
	s := fmt.Sprintf("t=%6.2fs  pos=%s  vel=%s  tilt=%s",
		float64(f.TimeMs)/1000, f.Position, f.Velocity, f.Accel)
	if f.Collision != ball.NoCollision {
		s += "  hit " + f.Collision.String()
	}
	return s
}
