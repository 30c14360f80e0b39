package e2e

import (
	"math/rand"
	"testing"

	"cloud.google.com/go/spanner"

	orderconsumer "github.com/light-bringer/order-saga-service/internal/app/order/consumers/paymentresult"
	orderrepo "github.com/light-bringer/order-saga-service/internal/app/order/repo"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/create_order"
	paymentconsumer "github.com/light-bringer/order-saga-service/internal/app/payment/consumers/ordercreated"
	"github.com/light-bringer/order-saga-service/internal/app/payment/contracts"
	"github.com/light-bringer/order-saga-service/internal/app/payment/gateway"
	paymentrepo "github.com/light-bringer/order-saga-service/internal/app/payment/repo"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
	"github.com/light-bringer/order-saga-service/tests/testutil"
)

const (
	topicOrderEvents   = "order-events"
	topicPaymentEvents = "payment-events"
)

// saga wires both services against real Spanner databases and an in-process
// broker. Relays are driven by hand so each test controls exactly when events
// flow.
type saga struct {
	OrderClient   *spanner.Client
	PaymentClient *spanner.Client

	Broker *broker.Memory

	OrderRepo   *orderrepo.OrderRepo
	PaymentRepo *paymentrepo.PaymentRepo

	CreateOrder *create_order.Interactor

	OrderRelay   *outbox.Relay
	PaymentRelay *outbox.Relay

	OrderLedger   ledger.Store
	PaymentLedger ledger.Store
}

// setupSaga builds the full two-service topology. gw decides payment
// outcomes; tests pass a deterministic gateway instead of the random
// simulator.
func setupSaga(t *testing.T, gw contracts.Gateway) (*saga, func()) {
	t.Helper()

	orderClient, orderCleanup := testutil.Setup(t, testutil.OrderDB(), testutil.OrderTables)
	paymentClient, paymentCleanup := testutil.Setup(t, testutil.PaymentDB(), testutil.PaymentTables)

	cleanup := func() {
		paymentCleanup()
		orderCleanup()
	}

	clk := clock.System()
	mq := broker.NewMemory()

	orderCommitter := committer.NewCommitter(orderClient)
	orderRepo := orderrepo.NewOrderRepo(orderClient)
	orderOutbox := outbox.NewSpannerStore(orderClient)
	orderLedger := ledger.NewSpannerStore(orderClient)

	paymentCommitter := committer.NewCommitter(paymentClient)
	paymentRepo := paymentrepo.NewPaymentRepo(paymentClient)
	paymentOutbox := outbox.NewSpannerStore(paymentClient)
	paymentLedger := ledger.NewSpannerStore(paymentClient)

	if gw == nil {
		gw = gateway.NewSimulated(1.0, rand.New(rand.NewSource(1)))
	}

	s := &saga{
		OrderClient:   orderClient,
		PaymentClient: paymentClient,
		Broker:        mq,
		OrderRepo:     orderRepo,
		PaymentRepo:   paymentRepo,
		CreateOrder:   create_order.NewInteractor(orderRepo, orderOutbox, orderCommitter, clk),
		OrderRelay:    outbox.NewRelay(orderOutbox, mq, topicOrderEvents, clk),
		PaymentRelay:  outbox.NewRelay(paymentOutbox, mq, topicPaymentEvents, clk),
		OrderLedger:   orderLedger,
		PaymentLedger: paymentLedger,
	}

	ctx := t.Context()

	paymentConsumer := paymentconsumer.NewConsumer(
		paymentRepo, gw, paymentOutbox, paymentLedger, paymentCommitter, clk,
		paymentconsumer.RandomMethod(rand.New(rand.NewSource(1))),
	)
	if err := mq.Subscribe(ctx, topicOrderEvents, paymentConsumer.Handle); err != nil {
		t.Fatalf("subscribe order events: %v", err)
	}

	orderConsumer := orderconsumer.NewConsumer(orderRepo, orderOutbox, orderLedger, orderCommitter, clk)
	if err := mq.Subscribe(ctx, topicPaymentEvents, orderConsumer.Handle); err != nil {
		t.Fatalf("subscribe payment events: %v", err)
	}

	return s, cleanup
}
