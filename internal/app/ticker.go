package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/platform/correlation"
)

const DefaultRecomputeInterval = 5 * time.Minute

// RecomputeTicker periodically re-derives every scorecard so that weight table or
// formula changes reach clients without waiting for the next pillar update.
type RecomputeTicker struct {
	service  *Service
	clock    clockwork.Clock
	interval time.Duration
}

// NewRecomputeTicker creates a ticker. A non-positive interval selects DefaultRecomputeInterval.
func NewRecomputeTicker(service *Service, clock clockwork.Clock, interval time.Duration) *RecomputeTicker {
	if interval <= 0 {
		interval = DefaultRecomputeInterval
	}
	return &RecomputeTicker{
		service:  service,
		clock:    clock,
		interval: interval,
	}
}

// Run starts the periodic recompute loop. It blocks until ctx is cancelled.
func (t *RecomputeTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	slog.Info("Recompute ticker started", "interval", t.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Recompute ticker stopped")
			return
		case <-ticker.Chan():
			tickCtx := correlation.WithID(ctx, correlation.NewID())
			changed := t.service.Recompute(tickCtx)
			slog.DebugContext(tickCtx, "Ticker: recomputed scorecards", "changed", changed)
		}
	}
}
