// Package events defines the closed set of wire events exchanged between the
// order and payment services, plus the single decode point at the trust
// boundary. Consumers switch on the concrete variant instead of comparing
// event-type strings scattered through handler code.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event type tags as they appear on the wire.
const (
	TypeOrderCreated     = "ORDER_CREATED"
	TypeOrderCancelled   = "ORDER_CANCELLED"
	TypeOrderShipped     = "ORDER_SHIPPED"
	TypeOrderDelivered   = "ORDER_DELIVERED"
	TypePaymentCompleted = "PAYMENT_COMPLETED"
	TypePaymentFailed    = "PAYMENT_FAILED"
	TypePaymentRefunded  = "PAYMENT_REFUNDED"
)

// Aggregate type tags stored on outbox rows.
const (
	AggregateTypeOrder   = "ORDER"
	AggregateTypePayment = "PAYMENT"
)

// Event is the base interface for all wire events.
//
// AggregateID doubles as the outbox aggregate id and the broker partition key.
// Events that can coexist with the creation event for the same business object
// mint a suffixed id (e.g. "<orderNumber>-compensation") so the outbox
// uniqueness constraint and the far side's idempotency ledger keep them apart.
type Event interface {
	EventType() string
	AggregateID() string
	AggregateType() string
}

// OrderCreated announces a new order awaiting payment.
type OrderCreated struct {
	Type          string          `json:"eventType"`
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Status        string          `json:"status"`
	EventTime     time.Time       `json:"eventTime"`
}

func (e *OrderCreated) EventType() string     { return TypeOrderCreated }
func (e *OrderCreated) AggregateID() string   { return e.OrderNumber }
func (e *OrderCreated) AggregateType() string { return AggregateTypeOrder }

// OrderCancelled announces the compensating cancellation of an order after a
// downstream failure.
type OrderCancelled struct {
	Type        string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Reason      string    `json:"reason,omitempty"`
	Status      string    `json:"status"`
	EventTime   time.Time `json:"eventTime"`
}

func (e *OrderCancelled) EventType() string     { return TypeOrderCancelled }
func (e *OrderCancelled) AggregateID() string   { return e.OrderNumber + "-compensation" }
func (e *OrderCancelled) AggregateType() string { return AggregateTypeOrder }

// OrderShipped announces that a paid order left the warehouse.
type OrderShipped struct {
	Type        string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	EventTime   time.Time `json:"eventTime"`
}

func (e *OrderShipped) EventType() string     { return TypeOrderShipped }
func (e *OrderShipped) AggregateID() string   { return e.OrderNumber + "-shipped" }
func (e *OrderShipped) AggregateType() string { return AggregateTypeOrder }

// OrderDelivered announces final delivery of a shipped order.
type OrderDelivered struct {
	Type        string    `json:"eventType"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	EventTime   time.Time `json:"eventTime"`
}

func (e *OrderDelivered) EventType() string     { return TypeOrderDelivered }
func (e *OrderDelivered) AggregateID() string   { return e.OrderNumber + "-delivered" }
func (e *OrderDelivered) AggregateType() string { return AggregateTypeOrder }

// PaymentCompleted announces a successful payment for an order.
type PaymentCompleted struct {
	Type          string          `json:"eventType"`
	PaymentID     string          `json:"paymentId"`
	PaymentNumber string          `json:"paymentNumber"`
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	EventTime     time.Time       `json:"eventTime"`
}

func (e *PaymentCompleted) EventType() string     { return TypePaymentCompleted }
func (e *PaymentCompleted) AggregateID() string   { return e.OrderNumber }
func (e *PaymentCompleted) AggregateType() string { return AggregateTypePayment }

// PaymentFailed announces a failed payment; the order side reacts with a
// compensating cancellation.
type PaymentFailed struct {
	Type          string          `json:"eventType"`
	PaymentID     string          `json:"paymentId"`
	PaymentNumber string          `json:"paymentNumber"`
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failureReason,omitempty"`
	EventTime     time.Time       `json:"eventTime"`
}

func (e *PaymentFailed) EventType() string     { return TypePaymentFailed }
func (e *PaymentFailed) AggregateID() string   { return e.OrderNumber }
func (e *PaymentFailed) AggregateType() string { return AggregateTypePayment }

// PaymentRefunded announces a refund of a previously completed payment.
type PaymentRefunded struct {
	Type          string          `json:"eventType"`
	PaymentID     string          `json:"paymentId"`
	PaymentNumber string          `json:"paymentNumber"`
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	EventTime     time.Time       `json:"eventTime"`
}

func (e *PaymentRefunded) EventType() string     { return TypePaymentRefunded }
func (e *PaymentRefunded) AggregateID() string   { return e.OrderNumber + "-refund" }
func (e *PaymentRefunded) AggregateType() string { return AggregateTypePayment }
