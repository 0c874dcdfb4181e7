// Package sensor supplies acceleration samples to the ball integrator.
//
// A [Source] yields [RawSample] values in device axes. [Orient] maps them
// into viewport axes before they reach the integrator: the device x axis
// points left in portrait, so x is inverted and y passes through.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// DefaultPeriodMs is the sampling period used when none is configured,
// matching a typical "game" sensor rate.
const DefaultPeriodMs = 20

var (
	ErrUnknownSource = errors.New("sensor: unknown source")
	ErrMalformedRow  = errors.New("sensor: malformed sample row")
)

// RawSample is one accelerometer reading in device axes.
type RawSample struct {
	TimeMs int64
	Ax     float64
	Ay     float64
	Az     float64
}

func (r RawSample) IsFinite() bool {
	for _, v := range [...]float64{r.Ax, r.Ay, r.Az} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (r RawSample) String() string {
	return fmt.Sprintf("t=%d a=(%.4f, %.4f, %.4f)", r.TimeMs, r.Ax, r.Ay, r.Az)
}

// Sample is an acceleration already oriented to the viewport: positive Ax
// pushes the ball right, positive Ay pushes it down.
type Sample struct {
	TimeMs int64
	Ax     float64
	Ay     float64
}

// Orient converts a device reading to viewport axes.
func Orient(r RawSample) Sample {
	return Sample{TimeMs: r.TimeMs, Ax: -r.Ax, Ay: r.Ay}
}

// Source yields readings one at a time. Finite sources return io.EOF when
// exhausted.
type Source interface {
	Next(ctx context.Context) (RawSample, error)
}

// Closer is implemented by sources holding resources.
type Closer interface {
	Close() error
}

// Close releases src if it holds resources.
func Close(src Source) error {
	if c, ok := src.(Closer); ok {
		return c.Close()
	}
	return nil
}
