package metrics

import (
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

// KineticEnergy is the mean specific kinetic energy ½|v|² over a run.
type KineticEnergy struct {
	name    string
	total   float64
	peak    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f engine.Frame, b ball.Bounds, r float64) {
	v := f.Velocity.Norm()
	ke := 0.5 * v * v
	e.total += ke
	if ke > e.peak {
		e.peak = ke
	}
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Peak returns the largest energy seen since the last reset.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.peak = 0
	e.samples = 0
}
