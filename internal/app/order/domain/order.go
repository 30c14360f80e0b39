// Package domain holds the Order aggregate: its lifecycle state machine, the
// wire events it records, and the validation rules for creating orders.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/order-saga-service/internal/events"
	"github.com/light-bringer/order-saga-service/internal/pkg/tracking"
)

// Field names for change tracking.
const (
	FieldStatus = "status"
)

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is the aggregate root owned by the order service. The payment side
// never touches it directly; it only observes the events the order records.
//
// Lifecycle: PENDING → {CONFIRMED | COMPLETED | CANCELLED}, with the
// fulfillment path COMPLETED → PAID → SHIPPED → DELIVERED. CANCELLED is
// terminal and reachable only through payment-failure compensation.
type Order struct {
	id            string
	orderNumber   string
	productName   string
	quantity      int64
	price         decimal.Decimal
	totalAmount   decimal.Decimal
	customerName  string
	customerEmail string
	status        OrderStatus
	createdAt     time.Time
	updatedAt     time.Time

	changes *tracking.ChangeTracker
	events  []events.Event
}

// NewOrder creates a new Order aggregate in PENDING state and records the
// ORDER_CREATED event. The total amount is derived from price and quantity.
func NewOrder(id, orderNumber, productName string, quantity int64, price decimal.Decimal, customerName, customerEmail string, now time.Time) (*Order, error) {
	if productName == "" {
		return nil, ErrEmptyProductName
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if customerName == "" {
		return nil, ErrEmptyCustomerName
	}

	o := &Order{
		id:            id,
		orderNumber:   orderNumber,
		productName:   productName,
		quantity:      quantity,
		price:         price,
		totalAmount:   price.Mul(decimal.NewFromInt(quantity)),
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		changes:       tracking.NewChangeTracker(),
		events:        make([]events.Event, 0, 1),
	}

	o.record(&events.OrderCreated{
		OrderID:       o.id,
		OrderNumber:   o.orderNumber,
		ProductName:   o.productName,
		Quantity:      o.quantity,
		Price:         o.price,
		TotalAmount:   o.totalAmount,
		CustomerName:  o.customerName,
		CustomerEmail: o.customerEmail,
		Status:        string(o.status),
		EventTime:     now,
	})

	return o, nil
}

// ReconstructOrder reconstitutes an Order from storage.
func ReconstructOrder(id, orderNumber, productName string, quantity int64, price, totalAmount decimal.Decimal, customerName, customerEmail string, status OrderStatus, createdAt, updatedAt time.Time) *Order {
	return &Order{
		id:            id,
		orderNumber:   orderNumber,
		productName:   productName,
		quantity:      quantity,
		price:         price,
		totalAmount:   totalAmount,
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       tracking.NewChangeTracker(),
		events:        make([]events.Event, 0),
	}
}

// Getters
func (o *Order) ID() string                       { return o.id }
func (o *Order) OrderNumber() string              { return o.orderNumber }
func (o *Order) ProductName() string              { return o.productName }
func (o *Order) Quantity() int64                  { return o.quantity }
func (o *Order) Price() decimal.Decimal           { return o.price }
func (o *Order) TotalAmount() decimal.Decimal     { return o.totalAmount }
func (o *Order) CustomerName() string             { return o.customerName }
func (o *Order) CustomerEmail() string            { return o.customerEmail }
func (o *Order) Status() OrderStatus              { return o.status }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }
func (o *Order) Changes() *tracking.ChangeTracker { return o.changes }
func (o *Order) Events() []events.Event           { return o.events }

// Confirm moves a pending order to CONFIRMED.
func (o *Order) Confirm(now time.Time) error {
	if o.status != StatusPending {
		return o.transitionError(StatusConfirmed)
	}

	o.setStatus(StatusConfirmed, now)

	return nil
}

// Complete marks the order COMPLETED after a successful payment.
func (o *Order) Complete(now time.Time) error {
	if o.status != StatusPending && o.status != StatusConfirmed {
		return o.transitionError(StatusCompleted)
	}

	o.setStatus(StatusCompleted, now)

	return nil
}

// Cancel is the compensating transition after a downstream payment failure.
// It records the ORDER_CANCELLED event, whose aggregate id carries the
// compensation suffix so the far side's ledger keeps it apart from the
// creation event.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.status != StatusPending && o.status != StatusConfirmed {
		return o.transitionError(StatusCancelled)
	}

	o.setStatus(StatusCancelled, now)

	o.record(&events.OrderCancelled{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		Reason:      reason,
		Status:      string(o.status),
		EventTime:   now,
	})

	return nil
}

// MarkPaid records payment settlement on a completed order.
func (o *Order) MarkPaid(now time.Time) error {
	if o.status != StatusCompleted {
		return o.transitionError(StatusPaid)
	}

	o.setStatus(StatusPaid, now)

	return nil
}

// Ship moves a paid order to SHIPPED and records the event.
func (o *Order) Ship(now time.Time) error {
	if o.status != StatusPaid {
		return o.transitionError(StatusShipped)
	}

	o.setStatus(StatusShipped, now)

	o.record(&events.OrderShipped{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		Status:      string(o.status),
		EventTime:   now,
	})

	return nil
}

// Deliver moves a shipped order to DELIVERED and records the event.
func (o *Order) Deliver(now time.Time) error {
	if o.status != StatusShipped {
		return o.transitionError(StatusDelivered)
	}

	o.setStatus(StatusDelivered, now)

	o.record(&events.OrderDelivered{
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		Status:      string(o.status),
		EventTime:   now,
	})

	return nil
}

func (o *Order) setStatus(status OrderStatus, now time.Time) {
	o.status = status
	o.updatedAt = now
	o.changes.MarkDirty(FieldStatus)
}

func (o *Order) record(evt events.Event) {
	o.events = append(o.events, evt)
}

func (o *Order) transitionError(target OrderStatus) error {
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, o.status, target)
}
