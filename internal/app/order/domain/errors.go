package domain

import "errors"

// Domain errors as sentinel values.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyProductName  = errors.New("product name cannot be empty")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrEmptyCustomerName = errors.New("customer name cannot be empty")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
