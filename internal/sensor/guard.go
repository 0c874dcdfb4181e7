package sensor

import (
	"context"

	"go.uber.org/zap"
)

// Guard drops readings the integrator must not see: non-finite values and
// timestamps earlier than the last accepted one.
type Guard struct {
	src     Source
	log     *zap.Logger
	last    int64
	hasLast bool
	dropped int
}

func NewGuard(src Source, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{src: src, log: log}
}

func (g *Guard) Next(ctx context.Context) (RawSample, error) {
	for {
		s, err := g.src.Next(ctx)
		if err != nil {
			return s, err
		}

		switch {
		case !s.IsFinite():
			g.drop(s, "non-finite acceleration")
		case g.hasLast && s.TimeMs < g.last:
			g.drop(s, "timestamp went backwards")
		default:
			g.last, g.hasLast = s.TimeMs, true
			return s, nil
		}
	}
}

func (g *Guard) drop(s RawSample, reason string) {
	g.dropped++
	g.log.Warn("dropping sample",
		zap.String("reason", reason),
		zap.Int64("time_ms", s.TimeMs),
		zap.Int("dropped", g.dropped),
	)
}

// Dropped returns the number of readings discarded so far.
func (g *Guard) Dropped() int { return g.dropped }

func (g *Guard) Close() error { return Close(g.src) }
