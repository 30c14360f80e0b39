package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// Relay defaults; tunable through config.
const (
	DefaultRelayInterval = 5 * time.Second
	DefaultMaxRetry      = 5
	DefaultBatchSize     = 100
	DefaultSendTimeout   = 3 * time.Second
)

// Stats summarizes one relay pass.
type Stats struct {
	Fetched   int
	Delivered int
	Failed    int
}

// Relay drains undelivered outbox rows into the broker on a fixed interval.
//
// Each row is handled independently: a successful send flips the row to
// delivered in its own short transaction; a failed send bumps the retry count
// in its own short transaction. Rows that reach the retry ceiling drop out of
// the pending query and stay undelivered as an auditable stuck record —
// surfacing them is what cmd/check-outbox is for. Broker outage degrades to
// no progress for the pass, never a crash.
//
// Delivery is at-least-once: a crash between broker ack and MarkDelivered
// leaves the row pending, so the next pass sends it again. Consumers
// deduplicate through the idempotency ledger.
type Relay struct {
	store       Store
	broker      broker.Broker
	topic       string
	clk         clock.Clock
	interval    time.Duration
	maxRetry    int64
	batch       int64
	sendTimeout time.Duration
}

// RelayOption tunes a Relay.
type RelayOption func(*Relay)

// WithInterval sets the pass interval.
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) { r.interval = d }
}

// WithMaxRetry sets the per-row retry ceiling.
func WithMaxRetry(n int64) RelayOption {
	return func(r *Relay) { r.maxRetry = n }
}

// WithBatchSize caps rows fetched per pass.
func WithBatchSize(n int64) RelayOption {
	return func(r *Relay) { r.batch = n }
}

// WithSendTimeout bounds each broker send.
func WithSendTimeout(d time.Duration) RelayOption {
	return func(r *Relay) { r.sendTimeout = d }
}

// NewRelay creates a relay draining store into the broker topic.
func NewRelay(store Store, b broker.Broker, topic string, clk clock.Clock, opts ...RelayOption) *Relay {
	r := &Relay{
		store:       store,
		broker:      b,
		topic:       topic,
		clk:         clk,
		interval:    DefaultRelayInterval,
		maxRetry:    DefaultMaxRetry,
		batch:       DefaultBatchSize,
		sendTimeout: DefaultSendTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes relay passes until ctx is cancelled. Passes run back-to-back
// on one goroutine, so two passes can never overlap; a pass that outlives the
// interval simply delays the next tick.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := r.RelayPending(ctx)
			if err != nil {
				logger.Error("relay pass failed", zap.Error(err))
				continue
			}
			if stats.Fetched > 0 {
				logger.Info("relay pass finished",
					zap.Int("fetched", stats.Fetched),
					zap.Int("delivered", stats.Delivered),
					zap.Int("failed", stats.Failed))
			}
		}
	}
}

// RelayPending runs a single pass: fetch pending rows oldest first, send each
// to the broker keyed by aggregate id, and persist the per-row outcome.
func (r *Relay) RelayPending(ctx context.Context) (Stats, error) {
	records, err := r.store.ListPending(ctx, r.maxRetry, r.batch)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Fetched: len(records)}

	for _, rec := range records {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		sendCtx, cancel := context.WithTimeout(ctx, r.sendTimeout)
		sendErr := r.broker.Publish(sendCtx, r.topic, rec.AggregateID, rec.Payload)
		cancel()

		if sendErr != nil {
			stats.Failed++
			logger.Warn("outbox send failed",
				zap.String("event_id", rec.EventID),
				zap.String("aggregate_id", rec.AggregateID),
				zap.String("event_type", rec.EventType),
				zap.Int64("retry_count", rec.RetryCount),
				zap.Error(sendErr))

			if err := r.store.RecordFailure(ctx, rec.EventID, sendErr.Error()); err != nil {
				logger.Error("failed to record outbox failure",
					zap.String("event_id", rec.EventID), zap.Error(err))
			}

			if rec.RetryCount+1 >= r.maxRetry {
				logger.Error("outbox row reached retry ceiling, manual intervention required",
					zap.String("event_id", rec.EventID),
					zap.String("aggregate_id", rec.AggregateID))
			}
			continue
		}

		if err := r.store.MarkDelivered(ctx, rec.EventID, r.clk.Now()); err != nil {
			// The send succeeded but the local ack was lost; the row stays
			// pending and will be redelivered next pass.
			logger.Error("failed to mark outbox row delivered",
				zap.String("event_id", rec.EventID), zap.Error(err))
			stats.Failed++
			continue
		}

		stats.Delivered++
	}

	return stats, nil
}
