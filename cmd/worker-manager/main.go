// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"admissions-platform/internal/bootstrap"
	"admissions-platform/internal/common/camunda"
	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/observability"
	"admissions-platform/internal/common/validation"
	"admissions-platform/pkg/registry"

	cms "admissions-platform/internal/workers/matching/calculate-match-score"
	cc "admissions-platform/internal/workers/matching/categorize-colleges"
	sbn "admissions-platform/internal/workers/mentoring/send-booking-notification"
)

const healthAddress = ":8081"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "worker-manager"})

	zapLog.Info("Starting worker manager...")

	if !cfg.Camunda.Enabled {
		zapLog.Fatal("camunda is disabled; set camunda.enabled to run workers")
	}

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("otel exporter unavailable", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Activity registry: input schemas for every worker ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("failed to load activity registry", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	schemas, err := validation.NewSchemaValidator(reg)
	if err != nil {
		zapLog.Fatal("failed to compile activity schemas", zap.Error(err))
	}

	// --- Zeebe client, retried until the broker answers ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	backends := bootstrap.Open(ctx, cfg, log)
	defer backends.Close()

	notifier := bootstrap.NewNotifier(ctx, cfg.Notifications, log)

	// --- Register workers ---
	workers := camunda.NewWorkerSet(zeebe.GetClient(), zapLog)

	matchCfg := config.GetWorkerConfig(cfg, cms.TaskType)
	workers.Start(cms.TaskType, matchCfg, cms.NewHandler(
		cms.LoadConfig(matchCfg),
		backends.Store.Profiles, schemas, obs, log,
	).Handle)

	categorizeCfg := config.GetWorkerConfig(cfg, cc.TaskType)
	workers.Start(cc.TaskType, categorizeCfg, cc.NewHandler(
		cc.LoadConfig(categorizeCfg, cfg.Matching),
		backends.Store.Profiles, backends.Store.Colleges, schemas, obs, log,
	).Handle)

	notifyCfg := config.GetWorkerConfig(cfg, sbn.TaskType)
	workers.Start(sbn.TaskType, notifyCfg, sbn.NewHandler(
		sbn.LoadConfig(notifyCfg),
		backends.Store, notifier, schemas, obs, log,
	).Handle)

	zapLog.Info("Workers registered", zap.Strings("running", workers.Running()))

	// --- Health & Metrics Server ---
	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"backend": backends.Store.Backend,
			"workers": workers.Running(),
			"time":    time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, code := "ready", http.StatusOK
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	healthServer := &http.Server{
		Addr:              healthAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", healthAddress))
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
