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
		log.Fatalf("payment-service: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load("payment")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flush, err := logger.Init("payment-service")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer flush()

	logger.Info("starting payment service",
		zap.String("spanner_db", cfg.SpannerDB),
		zap.String("http_port", cfg.HTTPPort),
		zap.Float64("payment_success_rate", cfg.PaymentSuccessRate))

	opts, err := services.NewPaymentServiceOptions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer opts.Close()

	go opts.Relay.Run(ctx)
	go opts.Sweeper.Run(ctx)

	// Charge each newly created order exactly once.
	if err := opts.Broker.Subscribe(ctx, services.TopicOrderEvents, opts.Consumer.Handle); err != nil {
		return fmt.Errorf("subscribe %s: %w", services.TopicOrderEvents, err)
	}

	mux := http.NewServeMux()
	opts.PaymentsHandler.Register(mux)

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
