package e2e

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/light-bringer/order-saga-service/internal/app/order/domain"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/create_order"
	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
	paymentdomain "github.com/light-bringer/order-saga-service/internal/app/payment/domain"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/tests/testutil"
)

type approveAll struct{}

func (approveAll) Authorize(ctx context.Context, orderNumber string, amount decimal.Decimal) (*contracts.Authorization, error) {
	return &contracts.Authorization{Approved: true, TransactionID: "TXN-E2E00001"}, nil
}

type declineAll struct{}

func (declineAll) Authorize(ctx context.Context, orderNumber string, amount decimal.Decimal) (*contracts.Authorization, error) {
	return &contracts.Authorization{Approved: false, DeclineReason: "insufficient funds"}, nil
}

func createWidgetOrder(t *testing.T, s *saga) *orderdomain.Order {
	t.Helper()

	order, err := s.CreateOrder.Execute(context.Background(), &create_order.Request{
		ProductName:   "Widget",
		Quantity:      2,
		Price:         decimal.RequireFromString("10.00"),
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, orderdomain.StatusPending, order.Status())
	require.True(t, order.TotalAmount().Equal(decimal.RequireFromString("20.00")))

	return order
}

func TestSaga_SuccessfulPaymentCompletesOrder(t *testing.T) {
	s, cleanup := setupSaga(t, approveAll{})
	defer cleanup()

	ctx := context.Background()
	order := createWidgetOrder(t, s)

	// Drain the order outbox: ORDER_CREATED reaches the payment service,
	// which charges and stages its outcome synchronously.
	stats, err := s.OrderRelay.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Delivered)

	payment, err := s.PaymentRepo.GetByOrderNumber(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusCompleted, payment.Status())
	assert.True(t, payment.Amount().Equal(decimal.RequireFromString("20.00")))
	assert.NotEmpty(t, payment.TransactionID())

	// Drain the payment outbox: PAYMENT_COMPLETED closes the saga.
	stats, err = s.PaymentRelay.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Delivered)

	reloaded, err := s.OrderRepo.GetByNumber(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusCompleted, reloaded.Status())

	// Both ledgers settled.
	row, err := s.PaymentLedger.Get(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultSuccess, row.Result)

	row, err = s.OrderLedger.Get(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultSuccess, row.Result)
}

func TestSaga_FailedPaymentCancelsOrder(t *testing.T) {
	s, cleanup := setupSaga(t, declineAll{})
	defer cleanup()

	ctx := context.Background()
	order := createWidgetOrder(t, s)

	_, err := s.OrderRelay.RelayPending(ctx)
	require.NoError(t, err)

	payment, err := s.PaymentRepo.GetByOrderNumber(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.StatusFailed, payment.Status())
	assert.Equal(t, "insufficient funds", payment.FailureReason())

	// PAYMENT_FAILED travels back and compensation kicks in.
	_, err = s.PaymentRelay.RelayPending(ctx)
	require.NoError(t, err)

	reloaded, err := s.OrderRepo.GetByNumber(ctx, order.OrderNumber())
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusCancelled, reloaded.Status())

	// The cancellation staged its own outbox row under the compensation id.
	stats, err := s.OrderRelay.RelayPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Delivered)
}

func TestSaga_RedeliveredEventIsAppliedOnce(t *testing.T) {
	s, cleanup := setupSaga(t, approveAll{})
	defer cleanup()

	ctx := context.Background()
	order := createWidgetOrder(t, s)

	_, err := s.OrderRelay.RelayPending(ctx)
	require.NoError(t, err)

	// Replay the same creation event as a broker redelivery would.
	rows := testutil.CountRows(t, s.PaymentClient, "payments")
	require.Equal(t, int64(1), rows)

	payload := capturedOrderCreated(t, s, order.OrderNumber())
	require.NoError(t, s.Broker.Publish(ctx, topicOrderEvents, order.OrderNumber(), payload))

	assert.Equal(t, int64(1), testutil.CountRows(t, s.PaymentClient, "payments"))
}

// capturedOrderCreated rebuilds the ORDER_CREATED payload the relay already
// delivered, from the delivered outbox row.
func capturedOrderCreated(t *testing.T, s *saga, orderNumber string) []byte {
	t.Helper()

	row, err := s.PaymentLedger.Get(context.Background(), orderNumber)
	require.NoError(t, err)
	require.NotEmpty(t, row.Payload)

	return row.Payload
}
