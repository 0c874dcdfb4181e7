package ball

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultRadius            = 50.0
	DefaultAccelerationScale = 1000.0
	DefaultRestitution       = 1 / 1.5
)

// Vec2 is a point or vector in viewport coordinates (x right, y down).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }

// Bounds is the viewport size.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether a ball of radius r centred at p lies fully inside b.
func (b Bounds) Contains(p Vec2, r float64) bool {
	return p.X >= r && p.X <= b.Width-r && p.Y >= r && p.Y <= b.Height-r
}

func (b Bounds) Center() Vec2 { return Vec2{b.Width / 2, b.Height / 2} }

// Params are the tunable constants of the simulation.
type Params struct {
	Radius float64 `json:"radius"`

	// AccelerationScale converts integrated displacement into viewport units.
	// Velocity is never scaled.
	AccelerationScale float64 `json:"acceleration_scale"`

	// Restitution is the fraction of speed kept after a wall bounce.
	Restitution float64 `json:"restitution"`
}

func DefaultParams() Params {
	return Params{
		Radius:            DefaultRadius,
		AccelerationScale: DefaultAccelerationScale,
		Restitution:       DefaultRestitution,
	}
}

func (p Params) Validate() error {
	if !(p.Radius > 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrParameterBounds, p.Radius)
	}
	if !(p.AccelerationScale > 0) {
		return fmt.Errorf("%w: acceleration scale must be positive, got %g", ErrParameterBounds, p.AccelerationScale)
	}
	if !(p.Restitution > 0 && p.Restitution < 1) {
		return fmt.Errorf("%w: restitution must be in (0, 1), got %g", ErrParameterBounds, p.Restitution)
	}
	return nil
}

// FitsIn reports whether the ball can be placed inside b at all.
func (p Params) FitsIn(b Bounds) bool {
	return p.Radius <= math.Min(b.Width, b.Height)/2
}

// Collision records which walls were hit during one step.
type Collision uint8

const (
	HitLeft Collision = 1 << iota
	HitRight
	HitTop
	HitBottom

	NoCollision Collision = 0
)

func (c Collision) Has(flag Collision) bool { return c&flag != 0 }

func (c Collision) Count() int {
	n := 0
	for f := HitLeft; f <= HitBottom; f <<= 1 {
		if c.Has(f) {
			n++
		}
	}
	return n
}

func (c Collision) String() string {
	if c == NoCollision {
		return "none"
	}
	names := make([]string, 0, 2)
	if c.Has(HitLeft) {
		names = append(names, "left")
	}
	if c.Has(HitRight) {
		names = append(names, "right")
	}
	if c.Has(HitTop) {
		names = append(names, "top")
	}
	if c.Has(HitBottom) {
		names = append(names, "bottom")
	}
	return strings.Join(names, "|")
}

// Snapshot is a value copy of the integrator state.
type Snapshot struct {
	Position     Vec2
	Velocity     Vec2
	Bounds       Bounds
	LastSampleMs int64
	HasSample    bool
	Collision    Collision
}
