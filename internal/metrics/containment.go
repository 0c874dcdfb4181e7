package metrics

import (
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

// Containment is the fraction of frames in which the whole ball lies
// inside the viewport. Frames after a velocity reversal near a wall may
// briefly overshoot.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f engine.Frame, b ball.Bounds, r float64) {
	c.samples++
	if !b.Contains(f.Position, r) {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
