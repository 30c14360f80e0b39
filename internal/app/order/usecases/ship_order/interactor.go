package ship_order

import (
	"context"
	"fmt"

	"github.com/light-bringer/order-saga-service/internal/app/order/contracts"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
)

// Interactor handles the ship order use case.
type Interactor struct {
	repo    contracts.OrderRepo
	outbox  outbox.Store
	applier committer.Applier
	clock   clock.Clock
}

// NewInteractor creates a new ship order interactor.
func NewInteractor(
	repo contracts.OrderRepo,
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

// Execute ships a paid order and stages its ORDER_SHIPPED outbox row in the
// same commit as the status change.
func (i *Interactor) Execute(ctx context.Context, orderNumber string) error {
	order, err := i.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}

	if err := order.Ship(i.clock.Now()); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.UpdateMut(order))

	for _, evt := range order.Events() {
		rec, err := outbox.FromEvent(evt)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", evt.EventType(), err)
		}

		plan.Add(i.outbox.InsertMut(rec))
	}

	if err := i.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit shipment of %s: %w", orderNumber, err)
	}

	return nil
}
