package camunda

import (
	"context"
	"time"

	"realty-crm/internal/common/config"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobRecorder receives per-job outcomes, typically the OTel bridge.
type JobRecorder interface {
	RecordJob(ctx context.Context, taskType, status string, duration time.Duration)
}

// Registry opens job workers and closes them together on shutdown.
type Registry struct {
	client   zbc.Client
	recorder JobRecorder
	logger   logger.Logger
	workers  []worker.JobWorker
}

func NewRegistry(client zbc.Client, recorder JobRecorder, log logger.Logger) *Registry {
	return &Registry{client: client, recorder: recorder, logger: log}
}

// Start opens a worker for taskType unless it is disabled in wcfg.
func (r *Registry) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		r.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jw := r.client.NewJobWorker().
		JobType(taskType).
		Handler(r.instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	r.workers = append(r.workers, jw)

	r.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

func (r *Registry) Count() int {
	return len(r.workers)
}

func (r *Registry) instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if r.recorder != nil {
			r.recorder.RecordJob(context.Background(), taskType, "handled", elapsed)
		}
	}
}

// Close stops polling and waits for in-flight handlers.
func (r *Registry) Close() {
	for _, w := range r.workers {
		w.Close()
		w.AwaitClose()
	}
	r.workers = nil
}
