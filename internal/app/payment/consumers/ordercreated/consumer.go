// Package ordercreated consumes ORDER_CREATED events and processes payment
// for each new order: one gateway authorization, one payment row, and one
// outcome event staged in the same commit.
package ordercreated

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
	"github.com/light-bringer/order-saga-service/internal/app/payment/domain"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/events"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
)

// MethodPicker selects the payment method for a new payment.
type MethodPicker func() domain.PaymentMethod

// RandomMethod picks uniformly among the known payment methods.
func RandomMethod(rng *rand.Rand) MethodPicker {
	methods := []domain.PaymentMethod{
		domain.MethodCard,
		domain.MethodBankTransfer,
		domain.MethodMobile,
	}

	return func() domain.PaymentMethod {
		return methods[rng.Intn(len(methods))]
	}
}

// Consumer processes payments for newly created orders. The idempotency
// ledger guarantees each order is charged at most once no matter how many
// times its creation event is delivered.
type Consumer struct {
	repo       contracts.PaymentRepo
	gateway    contracts.Gateway
	outbox     outbox.Store
	ledger     ledger.Store
	applier    committer.Applier
	clock      clock.Clock
	pickMethod MethodPicker
}

// NewConsumer creates a new order created consumer.
func NewConsumer(
	repo contracts.PaymentRepo,
	gw contracts.Gateway,
	outboxStore outbox.Store,
	ledgerStore ledger.Store,
	applier committer.Applier,
	clk clock.Clock,
	pickMethod MethodPicker,
) *Consumer {
	return &Consumer{
		repo:       repo,
		gateway:    gw,
		outbox:     outboxStore,
		ledger:     ledgerStore,
		applier:    applier,
		clock:      clk,
		pickMethod: pickMethod,
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
		return fmt.Errorf("decode order event: %w", err)
	}

	created, ok := evt.(*events.OrderCreated)
	if !ok {
		logger.Warn("ignoring event type", zap.String("event_type", evt.EventType()))
		return nil
	}

	eventID := created.AggregateID()

	if err := c.ledger.Claim(ctx, eventID, created.EventType(), msg.Payload); err != nil {
		if errors.Is(err, ledger.ErrAlreadyProcessed) {
			logger.Debug("event already processed", zap.String("event_id", eventID))
			return nil
		}
		return fmt.Errorf("claim event %s: %w", eventID, err)
	}

	if err := c.processPayment(ctx, created); err != nil {
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

// processPayment charges the order and persists the outcome. A declined
// authorization still succeeds here: the payment row lands as FAILED and the
// PAYMENT_FAILED event rides the same commit.
func (c *Consumer) processPayment(ctx context.Context, created *events.OrderCreated) error {
	now := c.clock.Now()

	payment, err := domain.NewPayment(
		uuid.New().String(),
		newPaymentNumber(),
		created.OrderID,
		created.OrderNumber,
		created.TotalAmount,
		c.pickMethod(),
		created.CustomerName,
		created.CustomerEmail,
		now,
	)
	if err != nil {
		return fmt.Errorf("create payment for %s: %w", created.OrderNumber, err)
	}

	if err := payment.StartProcessing(now); err != nil {
		return err
	}

	auth, err := c.gateway.Authorize(ctx, created.OrderNumber, payment.Amount())
	if err != nil {
		return fmt.Errorf("authorize payment for %s: %w", created.OrderNumber, err)
	}

	if auth.Approved {
		if err := payment.Complete(auth.TransactionID, c.clock.Now()); err != nil {
			return err
		}
	} else {
		if err := payment.Fail(auth.DeclineReason, c.clock.Now()); err != nil {
			return err
		}
	}

	plan := committer.NewPlan()
	plan.Add(c.repo.InsertMut(payment))

	for _, recorded := range payment.Events() {
		rec, err := outbox.FromEvent(recorded)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", recorded.EventType(), err)
		}

		plan.Add(c.outbox.InsertMut(rec))
	}

	if err := c.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit payment %s: %w", payment.PaymentNumber(), err)
	}

	logger.Info("payment processed",
		zap.String("payment_number", payment.PaymentNumber()),
		zap.String("order_number", created.OrderNumber),
		zap.String("status", string(payment.Status())))

	return nil
}

func newPaymentNumber() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:8])
}
