package main

import (
	"catalog/app"
	"catalog/app/catalog"
	"catalog/infra/rabbitmq"
	"catalog/infra/sqlstore"
	"catalog/internal/middleware"
	"catalog/pkg/aws"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Catalog API starting...")

	appConfig := config.Read()
	zap.L().Info("app config",
		zap.String("port", appConfig.Port),
		zap.String("dbDriver", appConfig.DBDriver),
		zap.Bool("seedDemoData", appConfig.SeedDemoData),
		zap.Bool("storageEnabled", appConfig.StorageEnabled()),
		zap.Bool("eventsEnabled", appConfig.RabbitMQURL != ""),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repository, err := sqlstore.Open(ctx, appConfig.DBDriver, appConfig.DSN())
	if err == nil && appConfig.SeedDemoData {
		err = repository.Seed(ctx)
	}
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to open catalog store", zap.Error(err))
	}

	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
		}
		eventPublisher = publisher
	}

	var images app.ImageStore
	if appConfig.StorageEnabled() {
		images = aws.NewS3Bucket(appConfig)
	}

	services := app.Services{
		Query:  catalog.NewQueryService(repository),
		Admin:  catalog.NewAdminService(repository, nil, eventPublisher),
		Images: images,
	}

	server := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: app.WriteError,
	})

	server.Use(recover.New())
	server.Use(middleware.NewRequestLogger())

	server.Get("/healthz", func(c *fiber.Ctx) error {
		if err := repository.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	server.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := server.Group("/api/v1", middleware.NewIdentityMiddleware(appConfig.RequireIdentity))
	app.RegisterRoutes(api, services)

	go func() {
		if err := server.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(server)

	if eventPublisher != nil {
		_ = eventPublisher.Close()
	}
	if err := repository.Close(); err != nil {
		zap.L().Error("Failed to close catalog store", zap.Error(err))
	}
}

func gracefulShutdown(server *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
