package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables unmarshals the job's variables into out. A decode failure
// is reported as a validation error so the job is not retried.
func DecodeVariables(job entities.Job, out interface{}) error {
	if err := json.Unmarshal([]byte(job.Variables), out); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("parse job variables: %v", err))
	}
	return nil
}

// CompleteJob sends a complete command carrying output as process variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	log.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

// FailJob counts the failure and hands it to the BPMN error handler.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, handler *apperrors.ErrorHandler) {
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(apperrors.CodeOf(err))).Inc()
	handler.HandleJobError(ctx, client, job, err)
}
