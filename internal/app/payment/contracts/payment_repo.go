// Package contracts defines the interfaces the payment usecases and consumers
// depend on.
package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-saga-service/internal/app/payment/domain"
)

// PaymentRepo provides persistence for Payment aggregates.
type PaymentRepo interface {
	// InsertMut returns the mutation inserting a new payment.
	InsertMut(p *domain.Payment) *spanner.Mutation

	// UpdateMut returns the mutation persisting the payment's dirty fields,
	// or nil when nothing changed.
	UpdateMut(p *domain.Payment) *spanner.Mutation

	// GetByNumber loads a payment by its business number. Returns
	// domain.ErrPaymentNotFound when no such payment exists.
	GetByNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error)

	// GetByOrderNumber loads the payment settling the given order. Returns
	// domain.ErrPaymentNotFound when none exists.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Payment, error)
}
