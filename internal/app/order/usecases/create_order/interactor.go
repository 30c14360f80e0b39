package create_order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/order-saga-service/internal/app/order/contracts"
	"github.com/light-bringer/order-saga-service/internal/app/order/domain"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
)

// Request contains the data needed to create an order.
type Request struct {
	ProductName   string
	Quantity      int64
	Price         decimal.Decimal
	CustomerName  string
	CustomerEmail string
}

// Interactor handles the create order use case.
type Interactor struct {
	repo    contracts.OrderRepo
	outbox  outbox.Store
	applier committer.Applier
	clock   clock.Clock
}

// NewInteractor creates a new create order interactor.
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

// Execute creates a new order and stages its ORDER_CREATED outbox row in the
// same commit as the order itself.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Order, error) {
	orderID := uuid.New().String()
	now := i.clock.Now()

	order, err := domain.NewOrder(
		orderID,
		newOrderNumber(),
		req.ProductName,
		req.Quantity,
		req.Price,
		req.CustomerName,
		req.CustomerEmail,
		now,
	)
	if err != nil {
		return nil, err
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.InsertMut(order))

	for _, evt := range order.Events() {
		rec, err := outbox.FromEvent(evt)
		if err != nil {
			return nil, fmt.Errorf("encode %s event: %w", evt.EventType(), err)
		}

		plan.Add(i.outbox.InsertMut(rec))
	}

	if err := i.applier.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("commit order %s: %w", order.OrderNumber(), err)
	}

	return order, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
