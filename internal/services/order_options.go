// Package services wires each service's dependency graph: Spanner client,
// broker connection, repositories, usecases, background workers, and HTTP
// handlers.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-saga-service/internal/app/order/consumers/paymentresult"
	"github.com/light-bringer/order-saga-service/internal/app/order/repo"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/confirm_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/create_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/deliver_order"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/mark_order_paid"
	"github.com/light-bringer/order-saga-service/internal/app/order/usecases/ship_order"
	"github.com/light-bringer/order-saga-service/internal/broker"
	"github.com/light-bringer/order-saga-service/internal/config"
	"github.com/light-bringer/order-saga-service/internal/ledger"
	"github.com/light-bringer/order-saga-service/internal/outbox"
	"github.com/light-bringer/order-saga-service/internal/pkg/clock"
	"github.com/light-bringer/order-saga-service/internal/pkg/committer"
	httphandler "github.com/light-bringer/order-saga-service/internal/transport/http"
)

// Broker topics connecting the two services.
const (
	TopicOrderEvents   = "order-events"
	TopicPaymentEvents = "payment-events"
)

// OrderServiceOptions holds all dependencies of the order service.
type OrderServiceOptions struct {
	SpannerClient *spanner.Client
	Broker        broker.Broker
	Relay         *outbox.Relay
	Sweeper       *outbox.Sweeper
	Consumer      *paymentresult.Consumer
	OrdersHandler *httphandler.OrdersHandler
}

// NewOrderServiceOptions creates and wires up the order service.
func NewOrderServiceOptions(ctx context.Context, cfg *config.Config) (*OrderServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("create Spanner client: %w", err)
	}

	mq, err := broker.DialRabbitMQ(cfg.AMQPURL, "order-service")
	if err != nil {
		spannerClient.Close()
		return nil, fmt.Errorf("connect broker: %w", err)
	}

	clk := clock.System()
	comm := committer.NewCommitter(spannerClient)

	orderRepo := repo.NewOrderRepo(spannerClient)
	outboxStore := outbox.NewSpannerStore(spannerClient)
	ledgerStore := ledger.NewSpannerStore(spannerClient)

	relay := outbox.NewRelay(outboxStore, mq, TopicOrderEvents, clk,
		outbox.WithInterval(cfg.RelayInterval),
		outbox.WithMaxRetry(cfg.MaxRetry),
		outbox.WithBatchSize(cfg.RelayBatch),
		outbox.WithSendTimeout(cfg.SendTimeout),
	)
	sweeper := outbox.NewSweeper(outboxStore, clk, cfg.SweepInterval, cfg.Retention)

	createUC := create_order.NewInteractor(orderRepo, outboxStore, comm, clk)
	confirmUC := confirm_order.NewInteractor(orderRepo, comm, clk)
	markPaidUC := mark_order_paid.NewInteractor(orderRepo, comm, clk)
	shipUC := ship_order.NewInteractor(orderRepo, outboxStore, comm, clk)
	deliverUC := deliver_order.NewInteractor(orderRepo, outboxStore, comm, clk)

	consumer := paymentresult.NewConsumer(orderRepo, outboxStore, ledgerStore, comm, clk)

	handler := httphandler.NewOrdersHandler(createUC, confirmUC, markPaidUC, shipUC, deliverUC)

	return &OrderServiceOptions{
		SpannerClient: spannerClient,
		Broker:        mq,
		Relay:         relay,
		Sweeper:       sweeper,
		Consumer:      consumer,
		OrdersHandler: handler,
	}, nil
}

// Close releases all held resources.
func (s *OrderServiceOptions) Close() {
	if s.Broker != nil {
		_ = s.Broker.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
