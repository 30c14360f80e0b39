package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-saga-service/internal/events"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPayment(t *testing.T) *Payment {
	t.Helper()

	p, err := NewPayment(
		"pay-id-1", "PAY-11AA22BB", "ord-id-1", "ORD-AB12CD34",
		decimal.RequireFromString("20.00"), MethodCard, "Alice", "alice@example.com", testNow,
	)
	require.NoError(t, err)

	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("creates pending payment", func(t *testing.T) {
		p := newTestPayment(t)

		assert.Equal(t, StatusPending, p.Status())
		assert.Empty(t, p.TransactionID())
		assert.Empty(t, p.Events())
	})

	t.Run("validation", func(t *testing.T) {
		amount := decimal.RequireFromString("20.00")

		cases := []struct {
			name        string
			orderNumber string
			amount      decimal.Decimal
			method      PaymentMethod
			wantErr     error
		}{
			{"empty order number", "", amount, MethodCard, ErrEmptyOrderNumber},
			{"zero amount", "ORD-X", decimal.Zero, MethodCard, ErrInvalidAmount},
			{"negative amount", "ORD-X", decimal.RequireFromString("-5"), MethodCard, ErrInvalidAmount},
			{"unknown method", "ORD-X", amount, PaymentMethod("CHEQUE"), ErrInvalidPaymentMethod},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewPayment("id", "PAY-X", "oid", tc.orderNumber, tc.amount, tc.method, "Alice", "a@b.c", testNow)
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})
}

func TestPaymentTransitions(t *testing.T) {
	later := testNow.Add(time.Second)

	t.Run("complete records PAYMENT_COMPLETED", func(t *testing.T) {
		p := newTestPayment(t)

		require.NoError(t, p.StartProcessing(later))
		require.NoError(t, p.Complete("TXN-12345678", later))

		assert.Equal(t, StatusCompleted, p.Status())
		assert.Equal(t, "TXN-12345678", p.TransactionID())

		require.Len(t, p.Events(), 1)
		completed, ok := p.Events()[0].(*events.PaymentCompleted)
		require.True(t, ok)
		assert.Equal(t, "ORD-AB12CD34", completed.AggregateID())
		assert.True(t, completed.Amount.Equal(decimal.RequireFromString("20.00")))
	})

	t.Run("fail records PAYMENT_FAILED with reason", func(t *testing.T) {
		p := newTestPayment(t)

		require.NoError(t, p.StartProcessing(later))
		require.NoError(t, p.Fail("insufficient funds", later))

		assert.Equal(t, StatusFailed, p.Status())
		assert.Equal(t, "insufficient funds", p.FailureReason())

		require.Len(t, p.Events(), 1)
		failed, ok := p.Events()[0].(*events.PaymentFailed)
		require.True(t, ok)
		assert.Equal(t, "ORD-AB12CD34", failed.AggregateID())
		assert.Equal(t, "insufficient funds", failed.FailureReason)
	})

	t.Run("refund a completed payment", func(t *testing.T) {
		p := newTestPayment(t)

		require.NoError(t, p.StartProcessing(later))
		require.NoError(t, p.Complete("TXN-12345678", later))
		require.NoError(t, p.Refund(later))

		assert.Equal(t, StatusRefunded, p.Status())

		require.Len(t, p.Events(), 2)
		refunded, ok := p.Events()[1].(*events.PaymentRefunded)
		require.True(t, ok)
		assert.Equal(t, "ORD-AB12CD34-refund", refunded.AggregateID())
	})

	t.Run("invalid transitions", func(t *testing.T) {
		cases := []struct {
			name string
			prep func(p *Payment)
			do   func(p *Payment) error
		}{
			{"complete without processing", func(p *Payment) {}, func(p *Payment) error { return p.Complete("TXN-X", later) }},
			{"fail without processing", func(p *Payment) {}, func(p *Payment) error { return p.Fail("x", later) }},
			{"refund a pending payment", func(p *Payment) {}, func(p *Payment) error { return p.Refund(later) }},
			{"refund a failed payment", func(p *Payment) {
				_ = p.StartProcessing(later)
				_ = p.Fail("x", later)
			}, func(p *Payment) error { return p.Refund(later) }},
			{"process twice", func(p *Payment) { _ = p.StartProcessing(later) }, func(p *Payment) error { return p.StartProcessing(later) }},
			{"complete after failure", func(p *Payment) {
				_ = p.StartProcessing(later)
				_ = p.Fail("x", later)
			}, func(p *Payment) error { return p.Complete("TXN-X", later) }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				p := newTestPayment(t)
				tc.prep(p)
				assert.ErrorIs(t, tc.do(p), ErrInvalidTransition)
			})
		}
	})
}
