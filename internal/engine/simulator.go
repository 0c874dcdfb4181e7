package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/logging"
	"github.com/san-kum/tiltball/internal/sensor"
	"go.uber.org/zap"
)

type Simulator struct {
	session   *Session
	renderer  Renderer
	metrics   []Metric
	observers []Observer
	log       *zap.Logger
}

func New(session *Session, renderer Renderer, log *zap.Logger) *Simulator {
	return &Simulator{
		session:   session,
		renderer:  renderer,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logging.OrNop(log),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Session() *Session { return s.session }

// Run reports the configured viewport to the session and then applies
// samples from src until it is exhausted, MaxSamples is reached or ctx is
// done. On cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, src sensor.Source, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	s.session.Resize(cfg.Width, cfg.Height)
	bounds := ball.Bounds{Width: cfg.Width, Height: cfg.Height}
	radius := s.session.Params().Radius

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.KeepFrames && cfg.MaxSamples > 0 {
		result.Frames = make([]Frame, 0, cfg.MaxSamples)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Info("run started",
		zap.Float64("width", cfg.Width),
		zap.Float64("height", cfg.Height),
		zap.Int("max_samples", cfg.MaxSamples),
	)
	start := time.Now()

	var runErr error
	for i := 0; cfg.MaxSamples <= 0 || i < cfg.MaxSamples; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		raw, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				runErr = ctx.Err()
			} else {
				runErr = &SampleError{Index: i, Wrapped: err}
			}
			break
		}

		f := s.session.Apply(sensor.Orient(raw))
		result.SamplesTaken++
		if f.Collision != ball.NoCollision {
			result.Bounces += f.Collision.Count()
			s.log.Debug("bounce",
				zap.Stringer("walls", f.Collision),
				zap.Int64("time_ms", f.TimeMs),
				zap.Stringer("velocity", f.Velocity),
			)
		}

		for _, m := range s.metrics {
			m.Observe(f, bounds, radius)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}
		if cfg.KeepFrames {
			result.Frames = append(result.Frames, f)
		}

		if s.renderer != nil {
			if err := s.renderer.Draw(f, bounds, radius); err != nil {
				runErr = &SampleError{Index: i, TimeMs: f.TimeMs, Wrapped: err}
				break
			}
		}
	}

	result.Final = s.session.Snapshot()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info("run finished",
		zap.Int("samples", result.SamplesTaken),
		zap.Int("bounces", result.Bounces),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(runErr),
	)

	return result, runErr
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Width > 0) || !(cfg.Height > 0) {
		return fmt.Errorf("%w: viewport %gx%g", ErrNotReady, cfg.Width, cfg.Height)
	}
	if !s.session.Params().FitsIn(ball.Bounds{Width: cfg.Width, Height: cfg.Height}) {
		return fmt.Errorf("%w: radius %g in %gx%g", ErrBallTooLarge, s.session.Params().Radius, cfg.Width, cfg.Height)
	}
	if cfg.MaxSamples < 0 {
		return fmt.Errorf("max samples must not be negative, got %d", cfg.MaxSamples)
	}
	return nil
}
