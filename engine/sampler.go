package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sampler drives periodic snapshot sampling. Its cadence is a server-side
// persistence decision, independent of any client poll interval.
type Sampler struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger
}

func NewSampler(e *Engine, interval time.Duration, log *zap.Logger) *Sampler {
	return &Sampler{
		engine:   e,
		interval: interval,
		log:      log,
	}
}

// Run samples on a fixed ticker until the context is canceled. A failed
// sample (feed down, journal error) skips that tick; the next tick retries.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("snapshot sampler started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("snapshot sampler stopped")
			return
		case <-ticker.C:
			if err := s.engine.Sample(ctx); err != nil {
				s.log.Warn("snapshot sample skipped", zap.Error(err))
			}
		}
	}
}
