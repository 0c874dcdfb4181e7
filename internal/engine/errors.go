package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady indicates a run was started without a usable viewport.
	ErrNotReady = errors.New("engine: viewport not ready")

	// ErrBallTooLarge indicates the ball cannot fit inside the viewport.
	ErrBallTooLarge = errors.New("engine: ball does not fit viewport")
)

// SampleError wraps a failure reading or rendering a particular sample.
type SampleError struct {
	Index   int
	TimeMs  int64
	Wrapped error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d (t=%dms): %v", e.Index, e.TimeMs, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}
