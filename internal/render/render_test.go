package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("unexpected cleared canvas %q", c.String())
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 3)

	if !c.IsSet(10, 10) || !c.IsSet(13, 10) || !c.IsSet(10, 7) {
		t.Error("circle missing expected pixels")
	}
	if c.IsSet(13, 13) {
		t.Error("corner of bounding box should be outside the circle")
	}
}

func TestRasterizeScalesToCanvas(t *testing.T) {
	c := NewCanvas(20, 20) // 40x80 sub-pixels
	b := ball.Bounds{Width: 400, Height: 800}
	Rasterize(c, b, ball.Vec2{X: 200, Y: 400}, 50)

	// scale = min(39/400, 79/800) = 0.0975
	if !c.IsSet(20, 39) {
		t.Error("ball centre not drawn")
	}
	if !c.IsSet(0, 0) || !c.IsSet(0, 40) {
		t.Error("viewport outline not drawn")
	}
}

func TestRasterizeSkipsNonFinite(t *testing.T) {
	c := NewCanvas(10, 10)
	Rasterize(c, ball.Bounds{Width: 100, Height: 100}, ball.Vec2{X: math.NaN(), Y: 0}, 10)
	if c.IsSet(5, 5) {
		t.Error("nothing but the outline should be drawn")
	}
}

func TestTerminalThrottles(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 20, 10, 10, ThemeMono)
	now := time.Unix(0, 0)
	term.now = func() time.Time { return now }

	b := ball.Bounds{Width: 400, Height: 800}
	f := engine.Frame{Position: ball.Vec2{X: 200, Y: 400}}

	for i := 0; i < 5; i++ {
		if err := term.Draw(f, b, 50); err != nil {
			t.Fatal(err)
		}
		now = now.Add(20 * time.Millisecond)
	}
	if got := strings.Count(buf.String(), clearScreen); got != 1 {
		t.Errorf("expected 1 frame within 100ms at 10fps, got %d", got)
	}

	now = now.Add(time.Second)
	term.Draw(f, b, 50)
	if got := strings.Count(buf.String(), clearScreen); got != 2 {
		t.Errorf("expected 2 frames, got %d", got)
	}

	term.Close()
	if !strings.HasSuffix(buf.String(), showCursor) {
		t.Error("cursor not restored")
	}
}

func TestStatusMentionsCollision(t *testing.T) {
	s := Status(engine.Frame{TimeMs: 1500, Collision: ball.HitLeft | ball.HitTop})
	if !strings.Contains(s, "t=  1.50s") || !strings.Contains(s, "hit left|top") {
		t.Errorf("unexpected status %q", s)
	}
}

func TestTrajectorySVG(t *testing.T) {
	frames := []engine.Frame{
		{Position: ball.Vec2{X: 200, Y: 400}},
		{Position: ball.Vec2{X: 50, Y: 380}, Collision: ball.HitLeft},
		{Position: ball.Vec2{X: 60, Y: 370}},
	}
	svg := TrajectorySVG(frames, ball.Bounds{Width: 400, Height: 800}, 50, ThemeClassic)

	for _, want := range []string{
		`width="400" height="800"`,
		"M200.0,400.0 L50.0,380.0 L60.0,370.0",
		`<circle cx="50.0" cy="380.0" r="3"/>`,
		`<circle cx="60.0" cy="370.0" r="50.0" fill="#ff00ff"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestPlotRun(t *testing.T) {
	if PlotRun(nil, 40, 5) != nil {
		t.Error("expected no plots for empty run")
	}
	frames := []engine.Frame{
		{Position: ball.Vec2{X: 1, Y: 2}, Velocity: ball.Vec2{X: 3, Y: 4}},
		{Position: ball.Vec2{X: 2, Y: 3}},
	}
	s := SeriesOf(frames)
	if s.Speed[0] != 5 || s.X[1] != 2 {
		t.Errorf("unexpected series %+v", s)
	}
	plots := PlotRun(frames, 40, 5)
	if len(plots) != 3 || !strings.Contains(plots[2], "speed") {
		t.Errorf("unexpected plots %v", plots)
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("mono").Name != "mono" {
		t.Error("mono theme not found")
	}
	if ThemeByName("unknown").Name != "classic" {
		t.Error("expected classic fallback")
	}
}

func TestThemeStyleColours(t *testing.T) {
	for _, th := range []Theme{ThemeClassic, ThemeMono} {
		if got := th.statusStyle().GetForeground(); got != th.Text {
			t.Errorf("%s status colour = %v, want %v", th.Name, got, th.Text)
		}
		if got := th.fieldStyle().GetBackground(); got != th.Field {
			t.Errorf("%s field colour = %v, want %v", th.Name, got, th.Field)
		}
	}
}
