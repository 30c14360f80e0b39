package refund_payment

import (
	"context"
	"fmt"

	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
)

// Interactor handles the refund payment use case.
type Interactor struct {
	repo    contracts.PaymentRepo
	outbox  outbox.Store
	applier committer.Applier
	clock   clock.Clock
}

// NewInteractor creates a new refund payment interactor.
func NewInteractor(
	repo contracts.PaymentRepo,
	outboxStore outbox.Store,
	applier committer.Applier,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		repo:    repo,
		outbox:  outboxStore,
		applier: applier,
		clock:   clk,
	}
}

// Execute refunds a completed payment and stages its PAYMENT_REFUNDED outbox
// row in the same commit as the status change.
func (i *Interactor) Execute(ctx context.Context, paymentNumber string) error {
	payment, err := i.repo.GetByNumber(ctx, paymentNumber)
	if err != nil {
		return err
	}

	if err := payment.Refund(i.clock.Now()); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.UpdateMut(payment))

	for _, evt := range payment.Events() {
		rec, err := outbox.FromEvent(evt)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", evt.EventType(), err)
		}

		plan.Add(i.outbox.InsertMut(rec))
	}

	if err := i.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit refund of %s: %w", paymentNumber, err)
	}

	return nil
}
