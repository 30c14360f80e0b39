package domain

import "errors"

// Domain errors for the payment aggregate.
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidAmount        = errors.New("payment amount must be positive")
	ErrEmptyOrderNumber     = errors.New("order number is required")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("invalid payment status transition")
)
