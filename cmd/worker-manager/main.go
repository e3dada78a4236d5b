package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty-crm/internal/app"
	"realty-crm/internal/common/camunda"
	"realty-crm/internal/common/config"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/observability"

	ai "realty-crm/internal/workers/assignment/assign-interest"
	cs "realty-crm/internal/workers/compensation/compute-salary"
	rjr "realty-crm/internal/workers/jobreport/review-job-report"
	sjr "realty-crm/internal/workers/jobreport/submit-job-report"
	ar "realty-crm/internal/workers/notification/appointment-reminders"
	dn "realty-crm/internal/workers/notification/dispatch-notification"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.Observability.ServiceName)
	if err != nil {
		log.Warn("otel metrics bridge unavailable", map[string]interface{}{"error": err.Error()})
	}
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability)
	if err != nil {
		log.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
		shutdownTracing = func(context.Context) error { return nil }
	}

	zeebeClient, err := camunda.Connect(ctx, camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	crm, err := app.Build(ctx, cfg, log, app.Options{
		ConnectAttempts: 15,
		ConnectBackoff:  2 * time.Second,
		Source:          "worker-manager",
	})
	if err != nil {
		zapLog.Fatal("component wiring failed", zap.Error(err))
	}

	registry := camunda.NewRegistry(zeebeClient, obs, log)
	registerWorkers(registry, cfg, crm, log)
	log.Info("workers registered", map[string]interface{}{"count": registry.Count()})

	srv := newHTTPServer(cfg.App.HTTPAddress, map[string]func(context.Context) error{
		"store": crm.Ready,
		"zeebe": func(ctx context.Context) error {
			return camunda.HealthCheck(ctx, zeebeClient, 2*time.Second)
		},
	}, log)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry.Close()
	if err := crm.Close(shutdownCtx); err != nil {
		log.Error("component shutdown incomplete", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebeClient.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Warn("meter shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped", nil)
}

func registerWorkers(r *camunda.Registry, cfg *config.Config, crm *app.App, log logger.Logger) {
	wcfg := config.GetWorkerConfig(cfg, ai.TaskType)
	r.Start(ai.TaskType, wcfg, ai.NewHandler(ai.LoadConfig(wcfg), crm.Orchestrator, log).Handle)

	wcfg = config.GetWorkerConfig(cfg, dn.TaskType)
	r.Start(dn.TaskType, wcfg, dn.NewHandler(dn.LoadConfig(wcfg), crm.Dispatcher, crm.Pool, log).Handle)

	wcfg = config.GetWorkerConfig(cfg, ar.TaskType)
	r.Start(ar.TaskType, wcfg, ar.NewHandler(ar.LoadConfig(wcfg), crm.Reminders, log).Handle)

	wcfg = config.GetWorkerConfig(cfg, sjr.TaskType)
	r.Start(sjr.TaskType, wcfg, sjr.NewHandler(sjr.LoadConfig(wcfg), crm.JobReports, log).Handle)

	wcfg = config.GetWorkerConfig(cfg, rjr.TaskType)
	r.Start(rjr.TaskType, wcfg, rjr.NewHandler(rjr.LoadConfig(wcfg), crm.JobReports, log).Handle)

	wcfg = config.GetWorkerConfig(cfg, cs.TaskType)
	r.Start(cs.TaskType, wcfg, cs.NewHandler(cs.LoadConfig(wcfg), crm.Compensation, log).Handle)
}
