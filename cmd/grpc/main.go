package main

import (
	"catalog/app/catalog"
	"catalog/infra/grpc"
	"catalog/infra/sqlstore"
	"catalog/pkg/config"
	"context"
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

	zap.L().Info("Catalog gRPC Service starting...")

	appConfig := config.Read()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repository, err := sqlstore.Open(ctx, appConfig.DBDriver, appConfig.DSN())
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer repository.Close()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	grpc.RegisterCatalogServiceServer(grpcServer.GetGRPCServer(), grpc.NewCatalogService(catalog.NewQueryService(repository)))
	grpcServer.MarkServing(grpc.CatalogServiceName)

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	grpcServer.GracefulStop()

	zap.L().Info("Server gracefully stopped")
}
