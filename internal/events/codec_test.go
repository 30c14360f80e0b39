package events

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	created := &OrderCreated{
		OrderID:       "o-1",
		OrderNumber:   "ORD-AAAA1111",
		ProductName:   "Widget",
		Quantity:      2,
		Price:         decimal.RequireFromString("10.00"),
		TotalAmount:   decimal.RequireFromString("20.00"),
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Status:        "PENDING",
		EventTime:     now,
	}

	payload, err := Encode(created)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)

	got, ok := decoded.(*OrderCreated)
	require.True(t, ok, "expected *OrderCreated, got %T", decoded)
	assert.Equal(t, "ORD-AAAA1111", got.OrderNumber)
	assert.Equal(t, int64(2), got.Quantity)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, TypeOrderCreated, got.Type, "eventType tag must travel inside the payload")
}

func TestDecode_UnknownEventType(t *testing.T) {
	_, err := Decode([]byte(`{"eventType":"ORDER_EXPLODED","orderNumber":"ORD-X"}`))
	require.ErrorIs(t, err, ErrUnknownEventType)
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	require.Error(t, err)
}

func TestAggregateID_SuffixesDistinguishEventInstances(t *testing.T) {
	created := &OrderCreated{OrderNumber: "ORD-1"}
	cancelled := &OrderCancelled{OrderNumber: "ORD-1"}
	shipped := &OrderShipped{OrderNumber: "ORD-1"}
	delivered := &OrderDelivered{OrderNumber: "ORD-1"}

	assert.Equal(t, "ORD-1", created.AggregateID())
	assert.Equal(t, "ORD-1-compensation", cancelled.AggregateID())
	assert.Equal(t, "ORD-1-shipped", shipped.AggregateID())
	assert.Equal(t, "ORD-1-delivered", delivered.AggregateID())

	seen := map[string]bool{}
	for _, e := range []Event{created, cancelled, shipped, delivered} {
		require.False(t, seen[e.AggregateID()], "aggregate id %q minted twice", e.AggregateID())
		seen[e.AggregateID()] = true
	}
}

func TestEncode_StampsTagOverCallerValue(t *testing.T) {
	evt := &PaymentFailed{Type: "bogus", OrderNumber: "ORD-2", FailureReason: "declined"}

	payload, err := Encode(evt)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)

	failed, ok := decoded.(*PaymentFailed)
	require.True(t, ok)
	assert.Equal(t, "declined", failed.FailureReason)
}
