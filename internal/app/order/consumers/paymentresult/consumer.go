// Package paymentresult consumes payment outcome events and closes the saga
// on the order side: success completes the order, failure compensates it with
// a cancellation.
package paymentresult

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/app/order/contracts"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/events"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// Consumer applies payment outcomes to orders. Every delivery is gated by the
// idempotency ledger, so redeliveries of an already-applied event ack without
// touching the order again.
type Consumer struct {
	repo    contracts.OrderRepo
	outbox  outbox.Store
	ledger  ledger.Store
	applier committer.Applier
	clock   clock.Clock
}

// NewConsumer creates a new payment result consumer.
func NewConsumer(
	repo contracts.OrderRepo,
	outboxStore outbox.Store,
	ledgerStore ledger.Store,
	applier committer.Applier,
	clk clock.Clock,
) *Consumer {
	return &Consumer{
		repo:    repo,
		outbox:  outboxStore,
		ledger:  ledgerStore,
		applier: applier,
		clock:   clk,
	}
}

// Handle is the broker handler. Returning an error leaves the message
// unacked for redelivery; the ledger claim makes the retry safe.
func (c *Consumer) Handle(ctx context.Context, msg broker.Message) error {
	evt, err := events.Decode(msg.Payload)
	if err != nil {
		if errors.Is(err, events.ErrUnknownEventType) {
			logger.Warn("skipping unknown event", zap.Error(err), zap.String("key", msg.Key))
			return nil
		}
		return fmt.Errorf("decode payment event: %w", err)
	}

	eventID := evt.AggregateID()

	if err := c.ledger.Claim(ctx, eventID, evt.EventType(), msg.Payload); err != nil {
		if errors.Is(err, ledger.ErrAlreadyProcessed) {
			logger.Debug("event already processed", zap.String("event_id", eventID))
			return nil
		}
		return fmt.Errorf("claim event %s: %w", eventID, err)
	}

	if err := c.apply(ctx, evt); err != nil {
		if markErr := c.ledger.MarkResult(ctx, eventID, ledger.ResultFailed, err.Error()); markErr != nil {
			logger.Error("mark ledger failed", zap.String("event_id", eventID), zap.Error(markErr))
		}
		return err
	}

	if err := c.ledger.MarkResult(ctx, eventID, ledger.ResultSuccess, ""); err != nil {
		logger.Error("mark ledger success", zap.String("event_id", eventID), zap.Error(err))
	}

	return nil
}

func (c *Consumer) apply(ctx context.Context, evt events.Event) error {
	switch e := evt.(type) {
	case *events.PaymentCompleted:
		return c.completeOrder(ctx, e.OrderNumber)
	case *events.PaymentFailed:
		return c.cancelOrder(ctx, e.OrderNumber, e.FailureReason)
	default:
		logger.Warn("ignoring event type", zap.String("event_type", evt.EventType()))
		return nil
	}
}

func (c *Consumer) completeOrder(ctx context.Context, orderNumber string) error {
	order, err := c.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		// A payment outcome for an order we never stored is an anomaly, not
		// something a retry can heal. Surface it loudly.
		return fmt.Errorf("payment completed for %s: %w", orderNumber, err)
	}

	if err := order.Complete(c.clock.Now()); err != nil {
		return fmt.Errorf("complete order %s: %w", orderNumber, err)
	}

	plan := committer.NewPlan()
	plan.Add(c.repo.UpdateMut(order))

	if err := c.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit completion of %s: %w", orderNumber, err)
	}

	logger.Info("order completed", zap.String("order_number", orderNumber))

	return nil
}

// cancelOrder is the compensating action: the order flips to CANCELLED and an
// ORDER_CANCELLED outbox row joins the same commit.
func (c *Consumer) cancelOrder(ctx context.Context, orderNumber, reason string) error {
	order, err := c.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("payment failed for %s: %w", orderNumber, err)
	}

	if reason == "" {
		reason = "payment failed"
	}

	if err := order.Cancel(reason, c.clock.Now()); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderNumber, err)
	}

	plan := committer.NewPlan()
	plan.Add(c.repo.UpdateMut(order))

	for _, recorded := range order.Events() {
		rec, err := outbox.FromEvent(recorded)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", recorded.EventType(), err)
		}

		plan.Add(c.outbox.InsertMut(rec))
	}

	if err := c.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit cancellation of %s: %w", orderNumber, err)
	}

	logger.Info("order cancelled",
		zap.String("order_number", orderNumber),
		zap.String("reason", reason))

	return nil
}
