// cmd/api-server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"admissions-platform/internal/api"
	"admissions-platform/internal/bootstrap"
	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/observability"
	"admissions-platform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "api-server"})

	zapLog.Info("Starting API server...", zap.String("version", cfg.App.Version))

	obs, err := observability.New("api-server")
	if err != nil {
		zapLog.Warn("otel exporter unavailable, match timings disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends := bootstrap.Open(ctx, cfg, log)
	defer backends.Close()

	notifier := bootstrap.NewNotifier(ctx, cfg.Notifications, log)

	checks := map[string]api.Pinger{}
	if backends.Postgres != nil {
		checks["postgres"] = backends.Postgres
	}
	if backends.Redis != nil {
		checks["redis"] = backends.Redis
	}
	if backends.Elasticsearch != nil {
		checks["elasticsearch"] = backends.Elasticsearch
	}

	server := api.NewServer(cfg.HTTP, api.Deps{
		Store:    backends.Store,
		Matcher:  service.NewMatcher(backends.Store, cfg.Matching, obs, log),
		Search:   backends.Search,
		Notifier: notifier,
		Checks:   checks,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("API server stopped gracefully")
}
