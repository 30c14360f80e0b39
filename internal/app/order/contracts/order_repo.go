// Package contracts defines the interfaces the order usecases and consumers
// depend on, decoupling them from the Spanner-backed implementations.
package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-saga-service/internal/app/order/domain"
)

// OrderRepo provides persistence for Order aggregates. Mutation builders
// return mutations for the caller's commit plan; reads run in their own
// read-only transactions.
type OrderRepo interface {
	// InsertMut returns the mutation inserting a new order.
	InsertMut(o *domain.Order) *spanner.Mutation

	// UpdateMut returns the mutation persisting the order's dirty fields,
	// or nil when nothing changed.
	UpdateMut(o *domain.Order) *spanner.Mutation

	// GetByNumber loads an order by its business number. Returns
	// domain.ErrOrderNotFound when no such order exists.
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
}
