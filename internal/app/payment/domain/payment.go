// Package domain holds the Payment aggregate and its processing state machine.
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
	FieldStatus        = "status"
	FieldTransactionID = "transaction_id"
	FieldFailureReason = "failure_reason"
)

// PaymentStatus represents the processing status of a payment.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "PENDING"
	StatusProcessing PaymentStatus = "PROCESSING"
	StatusCompleted  PaymentStatus = "COMPLETED"
	StatusFailed     PaymentStatus = "FAILED"
	StatusRefunded   PaymentStatus = "REFUNDED"
)

// PaymentMethod is the instrument used to settle a payment.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodMobile       PaymentMethod = "MOBILE"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodMobile:
		return true
	}
	return false
}

// Payment is the aggregate root owned by the payment service.
//
// Lifecycle: PENDING → PROCESSING → {COMPLETED | FAILED}, with
// COMPLETED → REFUNDED as the only further transition.
type Payment struct {
	id            string
	paymentNumber string
	orderID       string
	orderNumber   string
	amount        decimal.Decimal
	method        PaymentMethod
	customerName  string
	customerEmail string
	status        PaymentStatus
	transactionID string
	failureReason string
	createdAt     time.Time
	updatedAt     time.Time

	changes *tracking.ChangeTracker
	events  []events.Event
}

// NewPayment creates a new Payment in PENDING state for the given order.
func NewPayment(id, paymentNumber, orderID, orderNumber string, amount decimal.Decimal, method PaymentMethod, customerName, customerEmail string, now time.Time) (*Payment, error) {
	if orderNumber == "" {
		return nil, ErrEmptyOrderNumber
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !ValidMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, method)
	}

	return &Payment{
		id:            id,
		paymentNumber: paymentNumber,
		orderID:       orderID,
		orderNumber:   orderNumber,
		amount:        amount,
		method:        method,
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		changes:       tracking.NewChangeTracker(),
		events:        make([]events.Event, 0, 1),
	}, nil
}

// ReconstructPayment reconstitutes a Payment from storage.
func ReconstructPayment(id, paymentNumber, orderID, orderNumber string, amount decimal.Decimal, method PaymentMethod, customerName, customerEmail string, status PaymentStatus, transactionID, failureReason string, createdAt, updatedAt time.Time) *Payment {
	return &Payment{
		id:            id,
		paymentNumber: paymentNumber,
		orderID:       orderID,
		orderNumber:   orderNumber,
		amount:        amount,
		method:        method,
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        status,
		transactionID: transactionID,
		failureReason: failureReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		changes:       tracking.NewChangeTracker(),
		events:        make([]events.Event, 0),
	}
}

// Getters
func (p *Payment) ID() string                       { return p.id }
func (p *Payment) PaymentNumber() string            { return p.paymentNumber }
func (p *Payment) OrderID() string                  { return p.orderID }
func (p *Payment) OrderNumber() string              { return p.orderNumber }
func (p *Payment) Amount() decimal.Decimal          { return p.amount }
func (p *Payment) Method() PaymentMethod            { return p.method }
func (p *Payment) CustomerName() string             { return p.customerName }
func (p *Payment) CustomerEmail() string            { return p.customerEmail }
func (p *Payment) Status() PaymentStatus            { return p.status }
func (p *Payment) TransactionID() string            { return p.transactionID }
func (p *Payment) FailureReason() string            { return p.failureReason }
func (p *Payment) CreatedAt() time.Time             { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time             { return p.updatedAt }
func (p *Payment) Changes() *tracking.ChangeTracker { return p.changes }
func (p *Payment) Events() []events.Event           { return p.events }

// StartProcessing moves a pending payment to PROCESSING before the gateway
// call.
func (p *Payment) StartProcessing(now time.Time) error {
	if p.status != StatusPending {
		return p.transitionError(StatusProcessing)
	}

	p.setStatus(StatusProcessing, now)

	return nil
}

// Complete records a successful gateway authorization and the
// PAYMENT_COMPLETED event.
func (p *Payment) Complete(transactionID string, now time.Time) error {
	if p.status != StatusProcessing {
		return p.transitionError(StatusCompleted)
	}

	p.setStatus(StatusCompleted, now)
	p.transactionID = transactionID
	p.changes.MarkDirty(FieldTransactionID)

	p.record(&events.PaymentCompleted{
		PaymentID:     p.id,
		PaymentNumber: p.paymentNumber,
		OrderID:       p.orderID,
		OrderNumber:   p.orderNumber,
		Amount:        p.amount,
		Status:        string(p.status),
		EventTime:     now,
	})

	return nil
}

// Fail records a declined authorization and the PAYMENT_FAILED event that
// triggers compensation on the order side.
func (p *Payment) Fail(reason string, now time.Time) error {
	if p.status != StatusProcessing {
		return p.transitionError(StatusFailed)
	}

	p.setStatus(StatusFailed, now)
	p.failureReason = reason
	p.changes.MarkDirty(FieldFailureReason)

	p.record(&events.PaymentFailed{
		PaymentID:     p.id,
		PaymentNumber: p.paymentNumber,
		OrderID:       p.orderID,
		OrderNumber:   p.orderNumber,
		Amount:        p.amount,
		Status:        string(p.status),
		FailureReason: reason,
		EventTime:     now,
	})

	return nil
}

// Refund reverses a completed payment and records the PAYMENT_REFUNDED event.
func (p *Payment) Refund(now time.Time) error {
	if p.status != StatusCompleted {
		return p.transitionError(StatusRefunded)
	}

	p.setStatus(StatusRefunded, now)

	p.record(&events.PaymentRefunded{
		PaymentID:     p.id,
		PaymentNumber: p.paymentNumber,
		OrderID:       p.orderID,
		OrderNumber:   p.orderNumber,
		Amount:        p.amount,
		Status:        string(p.status),
		EventTime:     now,
	})

	return nil
}

func (p *Payment) setStatus(status PaymentStatus, now time.Time) {
	p.status = status
	p.updatedAt = now
	p.changes.MarkDirty(FieldStatus)
}

func (p *Payment) record(evt events.Event) {
	p.events = append(p.events, evt)
}

func (p *Payment) transitionError(target PaymentStatus) error {
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, p.status, target)
}
