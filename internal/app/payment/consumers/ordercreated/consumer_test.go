package ordercreated

import (
	"context"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
	"github.com/light-bringer/order-saga-service/internal/app/payment/domain"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/events"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	inserted []*domain.Payment
}

func (f *fakeRepo) InsertMut(p *domain.Payment) *spanner.Mutation {
	f.inserted = append(f.inserted, p)
	return spanner.Insert("payments", []string{"payment_id"}, []interface{}{p.ID()})
}

func (f *fakeRepo) UpdateMut(p *domain.Payment) *spanner.Mutation { return nil }

func (f *fakeRepo) GetByNumber(ctx context.Context, paymentNumber string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (f *fakeRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

type fakeGateway struct {
	auth *contracts.Authorization
	err  error
}

func (f *fakeGateway) Authorize(ctx context.Context, orderNumber string, amount decimal.Decimal) (*contracts.Authorization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.auth, nil
}

type fakeOutboxStore struct {
	staged []*outbox.Record
}

func (f *fakeOutboxStore) InsertMut(rec *outbox.Record) *spanner.Mutation {
	f.staged = append(f.staged, rec)
	return spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{rec.EventID})
}

func (f *fakeOutboxStore) ListPending(ctx context.Context, maxRetry, limit int64) ([]*outbox.Record, error) {
	return nil, nil
}

func (f *fakeOutboxStore) MarkDelivered(ctx context.Context, eventID string, at time.Time) error {
	return nil
}

func (f *fakeOutboxStore) RecordFailure(ctx context.Context, eventID, sendErr string) error {
	return nil
}

func (f *fakeOutboxStore) DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeLedger struct {
	rows map[string]*ledger.Record
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]*ledger.Record)}
}

func (f *fakeLedger) Claim(ctx context.Context, eventID, eventType string, payload []byte) error {
	if _, ok := f.rows[eventID]; ok {
		return ledger.ErrAlreadyProcessed
	}
	f.rows[eventID] = &ledger.Record{EventID: eventID, EventType: eventType, Result: ledger.ResultProcessing}
	return nil
}

func (f *fakeLedger) MarkResult(ctx context.Context, eventID, result, errMsg string) error {
	row, ok := f.rows[eventID]
	if !ok {
		return ledger.ErrRecordNotFound
	}
	row.Result = result
	row.ErrorMessage = errMsg
	return nil
}

func (f *fakeLedger) Get(ctx context.Context, eventID string) (*ledger.Record, error) {
	row, ok := f.rows[eventID]
	if !ok {
		return nil, ledger.ErrRecordNotFound
	}
	return row, nil
}

type fakeApplier struct {
	applied []*committer.CommitPlan
	err     error
}

func (f *fakeApplier) Apply(ctx context.Context, plan *committer.CommitPlan) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, plan)
	return nil
}

func fixedMethod() domain.PaymentMethod { return domain.MethodCard }

func newConsumer(gw *fakeGateway) (*Consumer, *fakeRepo, *fakeOutboxStore, *fakeLedger, *fakeApplier) {
	repo := &fakeRepo{}
	store := &fakeOutboxStore{}
	led := newFakeLedger()
	applier := &fakeApplier{}
	c := NewConsumer(repo, gw, store, led, applier, clock.NewFake(testNow), fixedMethod)
	return c, repo, store, led, applier
}

func orderCreatedMsg(t *testing.T) broker.Message {
	t.Helper()

	payload, err := events.Encode(&events.OrderCreated{
		OrderID:       "ord-id-1",
		OrderNumber:   "ORD-AB12CD34",
		ProductName:   "Widget",
		Quantity:      2,
		Price:         decimal.RequireFromString("10.00"),
		TotalAmount:   decimal.RequireFromString("20.00"),
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Status:        "PENDING",
		EventTime:     testNow,
	})
	require.NoError(t, err)

	return broker.Message{Key: "ORD-AB12CD34", Payload: payload}
}

func TestHandle_ApprovedChargeCompletesPayment(t *testing.T) {
	gw := &fakeGateway{auth: &contracts.Authorization{Approved: true, TransactionID: "TXN-12345678"}}
	c, repo, store, led, applier := newConsumer(gw)

	require.NoError(t, c.Handle(context.Background(), orderCreatedMsg(t)))

	require.Len(t, repo.inserted, 1)
	payment := repo.inserted[0]
	assert.True(t, strings.HasPrefix(payment.PaymentNumber(), "PAY-"))
	assert.Equal(t, domain.StatusCompleted, payment.Status())
	assert.Equal(t, "TXN-12345678", payment.TransactionID())
	assert.True(t, payment.Amount().Equal(decimal.RequireFromString("20.00")))

	// Payment row and outcome event share one commit.
	require.Len(t, applier.applied, 1)
	assert.Equal(t, 2, applier.applied[0].Count())

	require.Len(t, store.staged, 1)
	assert.Equal(t, events.TypePaymentCompleted, store.staged[0].EventType)
	assert.Equal(t, "ORD-AB12CD34", store.staged[0].AggregateID)

	row, err := led.Get(context.Background(), "ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultSuccess, row.Result)
}

func TestHandle_DeclinedChargeFailsPaymentButAcks(t *testing.T) {
	gw := &fakeGateway{auth: &contracts.Authorization{Approved: false, DeclineReason: "insufficient funds"}}
	c, repo, store, led, _ := newConsumer(gw)

	require.NoError(t, c.Handle(context.Background(), orderCreatedMsg(t)))

	require.Len(t, repo.inserted, 1)
	payment := repo.inserted[0]
	assert.Equal(t, domain.StatusFailed, payment.Status())
	assert.Equal(t, "insufficient funds", payment.FailureReason())

	require.Len(t, store.staged, 1)
	assert.Equal(t, events.TypePaymentFailed, store.staged[0].EventType)

	// A declined charge is a processed event, not a processing failure.
	row, err := led.Get(context.Background(), "ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, ledger.ResultSuccess, row.Result)
}

func TestHandle_RedeliveryChargesOnce(t *testing.T) {
	gw := &fakeGateway{auth: &contracts.Authorization{Approved: true, TransactionID: "TXN-12345678"}}
	c, repo, store, _, _ := newConsumer(gw)

	msg := orderCreatedMsg(t)
	require.NoError(t, c.Handle(context.Background(), msg))
	require.NoError(t, c.Handle(context.Background(), msg))

	assert.Len(t, repo.inserted, 1)
	assert.Len(t, store.staged, 1)
}

func TestHandle_GatewayErrorMarksFailed(t *testing.T) {
	gw := &fakeGateway{err: assert.AnError}
	c, repo, _, led, _ := newConsumer(gw)

	err := c.Handle(context.Background(), orderCreatedMsg(t))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, repo.inserted)

	row, getErr := led.Get(context.Background(), "ORD-AB12CD34")
	require.NoError(t, getErr)
	assert.Equal(t, ledger.ResultFailed, row.Result)
}

func TestHandle_IgnoresOtherEventTypes(t *testing.T) {
	gw := &fakeGateway{auth: &contracts.Authorization{Approved: true, TransactionID: "TXN-1"}}
	c, repo, _, _, _ := newConsumer(gw)

	payload, err := events.Encode(&events.OrderCancelled{
		OrderID:     "ord-id-1",
		OrderNumber: "ORD-AB12CD34",
		Reason:      "payment failed",
		Status:      "CANCELLED",
		EventTime:   testNow,
	})
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), broker.Message{Key: "k", Payload: payload}))
	assert.Empty(t, repo.inserted)
}
