package sensor

import (
	"context"
	"time"
)

// Paced releases samples from an inner source no faster than one per
// period of wall time, so a synthetic or replayed run plays back live.
type Paced struct {
	src    Source
	ticker *time.Ticker
}

func NewPaced(src Source, period time.Duration) *Paced {
	if period <= 0 {
		period = DefaultPeriodMs * time.Millisecond
	}
	return &Paced{src: src, ticker: time.NewTicker(period)}
}

func (p *Paced) Next(ctx context.Context) (RawSample, error) {
	select {
	case <-ctx.Done():
		return RawSample{}, ctx.Err()
	case <-p.ticker.C:
	}
	return p.src.Next(ctx)
}

func (p *Paced) Close() error {
	p.ticker.Stop()
	return Close(p.src)
}
