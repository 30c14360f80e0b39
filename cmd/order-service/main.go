package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/light-bringer/order-saga-service/internal/config"
	"github.com/light-bringer/order-saga-service/internal/pkg/logger"
	"github.com/light-bringer/order-saga-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("order-service: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load("order")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flush, err := logger.Init("order-service")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer flush()

	logger.Info("starting order service",
		zap.String("spanner_db", cfg.SpannerDB),
		zap.String("http_port", cfg.HTTPPort))

	opts, err := services.NewOrderServiceOptions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer opts.Close()

	// Background workers: relay drains the outbox, sweeper trims delivered
	// rows past retention.
	go opts.Relay.Run(ctx)
	go opts.Sweeper.Run(ctx)

	// React to payment outcomes.
	if err := opts.Broker.Subscribe(ctx, services.TopicPaymentEvents, opts.Consumer.Handle); err != nil {
		return fmt.Errorf("subscribe %s: %w", services.TopicPaymentEvents, err)
	}

	mux := http.NewServeMux()
	opts.OrdersHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	if err := httpServer.Shutdown(context.Background()); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	return nil
}
