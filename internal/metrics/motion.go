package metrics

import (
	"math"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

// Bounces counts wall contacts; a corner hit counts twice.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (m *Bounces) Name() string { return m.name }

func (m *Bounces) Observe(f engine.Frame, b ball.Bounds, r float64) {
	m.count += f.Collision.Count()
}

func (m *Bounces) Value() float64 { return float64(m.count) }

func (m *Bounces) Reset() { m.count = 0 }

// PathLength is the distance travelled by the ball centre in viewport units.
type PathLength struct {
	name    string
	prev    ball.Vec2
	hasPrev bool
	length  float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(f engine.Frame, b ball.Bounds, r float64) {
	if p.hasPrev {
		p.length += f.Position.Sub(p.prev).Norm()
	}
	p.prev, p.hasPrev = f.Position, true
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.length = 0
	p.hasPrev = false
}

// TiltEffort is the mean acceleration magnitude fed to the ball.
type TiltEffort struct {
	name    string
	sum     float64
	samples int
}

func NewTiltEffort() *TiltEffort {
	return &TiltEffort{name: "tilt_effort"}
}

func (c *TiltEffort) Name() string {
	return c.name
}

func (c *TiltEffort) Observe(f engine.Frame, b ball.Bounds, r float64) {
	c.sum += math.Hypot(f.Accel.X, f.Accel.Y)
	c.samples++
}

func (c *TiltEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *TiltEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Default returns the metrics every run records.
func Default() []engine.Metric {
	return []engine.Metric{
		NewBounces(),
		NewPathLength(),
		NewKineticEnergy(),
		NewContainment(),
		NewTiltEffort(),
	}
}
