package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is anything that can drop its own expired entries.
type Sweeper interface {
	Sweep() int
}

type RateLimitSweeper struct {
	target       Sweeper
	tickInterval time.Duration
	logger       *zap.Logger

	// OnSweep receives the number of entries removed by each pass.
	OnSweep func(removed int)
}


func NewRateLimitSweeper(target Sweeper, tickInterval time.Duration, logger *zap.Logger) *RateLimitSweeper {
	if tickInterval <= 0 {
		tickInterval = time.Minute // default: one pass per minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitSweeper{
		target:       target,
		tickInterval: tickInterval,
		logger:       logger,
	}
}

// Start blocks until ctx is cancelled, sweeping once per tick.
func (w *RateLimitSweeper) Start(ctx context.Context) {
	w.logger.Info("🕒 rate limit sweeper started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rate limit sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}


func (w *RateLimitSweeper) sweep() {
	removed := w.target.Sweep()
	if removed > 0 {
		w.logger.Debug("expired rate limit windows removed", zap.Int("removed", removed))
	}
	if w.OnSweep != nil {
		w.OnSweep(removed)
	}
}
