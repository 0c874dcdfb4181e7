package sensor

import (
	"context"
	"math"
	"math/rand"
)

// SyntheticConfig shapes a generated tilt signal.
type SyntheticConfig struct {
	StartMs   int64
	PeriodMs  int64
	Amplitude float64
	Frequency float64 // Hz
	Noise     float64
	BiasX     float64
	BiasY     float64
	Seed      int64
}

func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		PeriodMs:  DefaultPeriodMs,
		Amplitude: 3.0,
		Frequency: 0.25,
		Noise:     0.05,
		Seed:      1,
	}
}

// Synthetic generates a smooth wobbling tilt on a virtual clock, so runs
// with the same config are reproducible.
type Synthetic struct {
	cfg SyntheticConfig
	rng *rand.Rand
	n   int64
}

func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	if cfg.PeriodMs <= 0 {
		cfg.PeriodMs = DefaultPeriodMs
	}
	return &Synthetic{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (s *Synthetic) Next(ctx context.Context) (RawSample, error) {
	if err := ctx.Err(); err != nil {
		return RawSample{}, err
	}

	t := s.cfg.StartMs + s.n*s.cfg.PeriodMs
	s.n++

	sec := float64(t-s.cfg.StartMs) / 1000.0
	w := 2 * math.Pi * s.cfg.Frequency
	return RawSample{
		TimeMs: t,
		Ax:     s.cfg.BiasX + s.cfg.Amplitude*math.Sin(w*sec) + s.noise(),
		Ay:     s.cfg.BiasY + s.cfg.Amplitude*math.Cos(w*sec*0.7) + s.noise(),
		Az:     9.81,
	}, nil
}

func (s *Synthetic) noise() float64 {
	if s.cfg.Noise == 0 {
		return 0
	}
	return s.rng.NormFloat64() * s.cfg.Noise
}
