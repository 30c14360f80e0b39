package confirm_order

import (
	"context"
	"fmt"

	"github.com/light-bringer/order-saga-service/internal/app/order/contracts"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
)

// Interactor handles the confirm order use case.
type Interactor struct {
	repo    contracts.OrderRepo
	applier committer.Applier
	clock   clock.Clock
}

// NewInteractor creates a new confirm order interactor.
func NewInteractor(repo contracts.OrderRepo, applier committer.Applier, clk clock.Clock) *Interactor {
	return &Interactor{
		repo:    repo,
		applier: applier,
		clock:   clk,
	}
}

// Execute confirms a pending order.
func (i *Interactor) Execute(ctx context.Context, orderNumber string) error {
	order, err := i.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}

	if err := order.Confirm(i.clock.Now()); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.UpdateMut(order))

	if err := i.applier.Apply(ctx, plan); err != nil {
		return fmt.Errorf("commit confirmation of %s: %w", orderNumber, err)
	}

	return nil
}
