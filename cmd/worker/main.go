package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/duet/internal/notifications"
	"github.com/felixgeelhaar/duet/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/duet/pkg/config"
	"github.com/felixgeelhaar/duet/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting duet worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required for the worker")
		os.Exit(1)
	}

	registry := eventbus.NewConsumerRegistry(logger)
	registry.Register(notifications.NewConsumer(notifications.NewLogSender(logger), logger))

	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:    cfg.RabbitMQURL,
		Logger: logger,
	}, registry)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("failed to close consumer", "error", err)
		}
	}()

	logger.Info("consuming events", "types", registry.GetAllEventTypes())
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
