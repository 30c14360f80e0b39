package services

import (
	"context"
	"fmt"
	"math/rand"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-saga-service/internal/app/payment/consumers/ordercreated"
	"github.com/light-bringer/order-saga-service/internal/app/payment/gateway"
	"github.com/light-bringer/order-saga-service/internal/app/payment/repo"
	"github.com/light-bringer/order-saga-service/internal/app/payment/usecases/refund_payment"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/config"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
	httphandler "github.com/light-bringer/order-saga-service/internal/transport/http"
)

// PaymentServiceOptions holds all dependencies of the payment service.
type PaymentServiceOptions struct {
	SpannerClient   *spanner.Client
	Broker          broker.Broker
	Relay           *outbox.Relay
	Sweeper         *outbox.Sweeper
	Consumer        *ordercreated.Consumer
	PaymentsHandler *httphandler.PaymentsHandler
}

// NewPaymentServiceOptions creates and wires up the payment service.
func NewPaymentServiceOptions(ctx context.Context, cfg *config.Config) (*PaymentServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("create Spanner client: %w", err)
	}

	mq, err := broker.DialRabbitMQ(cfg.AMQPURL, "payment-service")
	if err != nil {
		spannerClient.Close()
		return nil, fmt.Errorf("connect broker: %w", err)
	}

	clk := clock.System()
	comm := committer.NewCommitter(spannerClient)

	paymentRepo := repo.NewPaymentRepo(spannerClient)
	outboxStore := outbox.NewSpannerStore(spannerClient)
	ledgerStore := ledger.NewSpannerStore(spannerClient)

	relay := outbox.NewRelay(outboxStore, mq, TopicPaymentEvents, clk,
		outbox.WithInterval(cfg.RelayInterval),
		outbox.WithMaxRetry(cfg.MaxRetry),
		outbox.WithBatchSize(cfg.RelayBatch),
		outbox.WithSendTimeout(cfg.SendTimeout),
	)
	sweeper := outbox.NewSweeper(outboxStore, clk, cfg.SweepInterval, cfg.Retention)

	rng := rand.New(rand.NewSource(clk.Now().UnixNano()))
	gw := gateway.NewSimulated(cfg.PaymentSuccessRate, rng)

	consumer := ordercreated.NewConsumer(
		paymentRepo, gw, outboxStore, ledgerStore, comm, clk,
		ordercreated.RandomMethod(rng),
	)

	refundUC := refund_payment.NewInteractor(paymentRepo, outboxStore, comm, clk)
	handler := httphandler.NewPaymentsHandler(refundUC)

	return &PaymentServiceOptions{
		SpannerClient:   spannerClient,
		Broker:          mq,
		Relay:           relay,
		Sweeper:         sweeper,
		Consumer:        consumer,
		PaymentsHandler: handler,
	}, nil
}

// Close releases all held resources.
func (s *PaymentServiceOptions) Close() {
	if s.Broker != nil {
		_ = s.Broker.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
