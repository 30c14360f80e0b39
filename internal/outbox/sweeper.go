package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// Sweeper defaults.
const (
	DefaultSweepInterval = 24 * time.Hour
	DefaultRetention     = 7 * 24 * time.Hour
)

// Sweeper reclaims storage by deleting delivered outbox rows past the
// retention horizon. It never touches undelivered rows regardless of age —
// stuck rows are an operator signal, not garbage.
type Sweeper struct {
	store     Store
	clk       clock.Clock
	interval  time.Duration
	retention time.Duration
}

// NewSweeper creates a sweeper over store.
func NewSweeper(store Store, clk clock.Clock, interval, retention time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Sweeper{store: store, clk: clk, interval: interval, retention: retention}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				logger.Error("retention sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce deletes delivered rows older than the retention window.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.clk.Now().Add(-s.retention)

	deleted, err := s.store.DeleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logger.Info("swept delivered outbox rows",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}

	return deleted, nil
}
