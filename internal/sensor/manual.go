package sensor

import (
	"context"
	"sync"
	"time"
)

// Clock returns the current time in epoch milliseconds.
type Clock func() int64

func WallClock() int64 { return time.Now().UnixMilli() }

// Manual is a source whose tilt is set by a UI (keyboard, mouse). Each
// Next stamps the current tilt with the clock. SetTilt and Next may be
// called from different goroutines.
type Manual struct {
	mu     sync.Mutex
	clock  Clock
	ax, ay float64
}

func NewManual(clock Clock) *Manual {
	if clock == nil {
		clock = WallClock
	}
	return &Manual{clock: clock}
}

// SetTilt sets the acceleration in viewport axes.
func (m *Manual) SetTilt(ax, ay float64) {
	m.mu.Lock()
	m.ax, m.ay = ax, ay
	m.mu.Unlock()
}

// Nudge adds to the current tilt and returns the result.
func (m *Manual) Nudge(dax, day float64) (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ax += dax
	m.ay += day
	return m.ax, m.ay
}

func (m *Manual) Tilt() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ax, m.ay
}

func (m *Manual) Next(ctx context.Context) (RawSample, error) {
	if err := ctx.Err(); err != nil {
		return RawSample{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Stored in viewport axes; flip x back to device axes so Orient
	// restores it.
	return RawSample{TimeMs: m.clock(), Ax: -m.ax, Ay: m.ay, Az: 9.81}, nil
}

// TiltFromPointer maps a pointer position inside a w x h area to a tilt in
// viewport axes: the centre is level and the edges give ±limit.
func TiltFromPointer(px, py, w, h, limit float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ax := (px/w*2 - 1) * limit
	ay := (py/h*2 - 1) * limit
	return clamp(ax, limit), clamp(ay, limit)
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
