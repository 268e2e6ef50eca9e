package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArtVaultCo/archive-service/config"
	"github.com/ArtVaultCo/archive-service/internal/infra/postgres"
	"github.com/ArtVaultCo/archive-service/internal/infra/server"
	"github.com/ArtVaultCo/archive-service/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
)

func main() {
	mainContext := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	observableLogger, loggerProvider, err := logger.NewObservableLogger(&cfg)
	if err != nil {
		// Fall back to local-only logging when the collector is unreachable.
		slog.SetDefault(logger.NewLogger(&cfg))
		slog.Warn("OTLP logging unavailable, using local logger only", slog.String("error", err.Error()))
	} else {
		slog.SetDefault(observableLogger)
	}

	conn, err := postgres.Init(cfg)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.New(mainContext, &cfg, conn)
	if srv == nil {
		slog.Error("failed to initialize server")
		os.Exit(1)
	}
	if loggerProvider != nil {
		srv.SetLoggerProvider(loggerProvider)
	}

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(15 * time.Second)); err != nil {
		slog.Warn("failed to start runtime instrumentation", slog.String("error", err.Error()))
	}

	srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	srv.Shutdown()
}
