package engine

import (
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/sensor"
)

// Frame is the state after one applied sample.
type Frame struct {
	TimeMs    int64          `json:"time_ms"`
	Accel     ball.Vec2      `json:"accel"`
	Position  ball.Vec2      `json:"position"`
	Velocity  ball.Vec2      `json:"velocity"`
	Collision ball.Collision `json:"collision"`
}

// Renderer draws the ball after each step.
type Renderer interface {
	Draw(f Frame, bounds ball.Bounds, radius float64) error
}

type Metric interface {
	Name() string
	Observe(f Frame, bounds ball.Bounds, radius float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	Width  float64
	Height float64

	// MaxSamples stops the run after this many applied samples; 0 runs
	// until the source is exhausted.
	MaxSamples int

	// KeepFrames records every frame in the result.
	KeepFrames bool
}

type Result struct {
	Frames       []Frame
	Final        ball.Snapshot
	Metrics      map[string]float64
	SamplesTaken int
	Bounces      int
}

func accelOf(s sensor.Sample) ball.Vec2 {
	return ball.Vec2{X: s.Ax, Y: s.Ay}
}
