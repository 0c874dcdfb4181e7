package engine

import (
	"sync"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/sensor"
)

// Session serializes access to one integrator.
type Session struct {
	mu sync.Mutex
	in *ball.Integrator
}

func NewSession(p ball.Params) *Session {
	return &Session{in: ball.New(p)}
}

// Resize reports the viewport size, which recentres the ball.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	s.in.OnViewportReady(width, height)
	s.mu.Unlock()
}

// Apply steps the integrator with one oriented sample.
func (s *Session) Apply(smp sensor.Sample) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.in.Step(smp.Ax, smp.Ay, smp.TimeMs)
	return Frame{
		TimeMs:    smp.TimeMs,
		Accel:     accelOf(smp),
		Position:  pos,
		Velocity:  s.in.Velocity(),
		Collision: s.in.LastCollision(),
	}
}

// ResetClock restarts the time base after a gap in sampling, such as a
// pause, so the gap is not integrated as one long step.
func (s *Session) ResetClock() {
	s.mu.Lock()
	s.in.ResetClock()
	s.mu.Unlock()
}

func (s *Session) Snapshot() ball.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.Snapshot()
}

func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.Ready()
}

func (s *Session) Params() ball.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.in.Params()
}
