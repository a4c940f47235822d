package main

import (
	"catalog/app/catalog"
	"catalog/infra/rabbitmq"
	"catalog/infra/sqlstore"
	"catalog/internal/consumers"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Catalog Worker Service starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("dbDriver", appConfig.DBDriver),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	openCtx, cancelOpen := context.WithTimeout(context.Background(), 30*time.Second)
	repository, err := sqlstore.Open(openCtx, appConfig.DBDriver, appConfig.DSN())
	cancelOpen()
	if err != nil {
		zap.L().Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer repository.Close()

	// Stock changes are product updates and are announced like any other.
	publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
	if err != nil {
		zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
	}
	defer publisher.Close()

	stockHandler := consumers.NewStockEventHandler(
		catalog.NewAdminService(repository, nil, publisher),
		zap.L(),
	)

	stockConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.StockExchange,
		QueueName:      "catalog.stock.all.v1", // {service}.{domain}.{events}.{version}
		RoutingKeys:    []string{"stock.*.v1"},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create stock consumer", zap.Error(err))
	}
	defer stockConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		zap.L().Info("Starting stock event consumer...")
		if err := stockConsumer.Consume(ctx, stockHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Stock consumer error", zap.Error(err))
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := repository.PoolStats()
				zap.L().Info("Connection pool stats",
					zap.Int("max_open", stats["max_open_connections"].(int)),
					zap.Int("open", stats["open_connections"].(int)),
					zap.Int("in_use", stats["in_use"].(int)),
					zap.Int("idle", stats["idle"].(int)),
					zap.Int64("wait_count", stats["wait_count"].(int64)),
					zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
				)
			}
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.StockExchange),
	)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping worker service...")
	case <-consumerDone:
		zap.L().Warn("Stock consumer stopped, shutting down worker service...")
	}
	cancel()
	<-consumerDone

	zap.L().Info("Worker service stopped gracefully")
}
