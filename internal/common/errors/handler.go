package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler turns a worker failure into either a retrying FailJob or a
// thrown BPMN error, depending on the taxonomy code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// Normalize extracts the StandardError from err's chain, wrapping anything
// else as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	retries := job.Retries - 1
	if limit := int32(bpmnErr.Retries); retries > limit {
		retries = limit
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message)

	varsJSON, _ := json.Marshal(bpmnErr.ToErrorVariables())
	if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
		_, err = withVars.Send(ctx)
		h.logSendFailure(job, err)
		return
	}

	_, err := cmd.Send(ctx)
	h.logSendFailure(job, err)
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	varsJSON, _ := json.Marshal(bpmnErr.ToErrorVariables())
	if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
		_, err = withVars.Send(ctx)
		h.logSendFailure(job, err)
		return
	}

	_, err := cmd.Send(ctx)
	h.logSendFailure(job, err)
}

func (h *ErrorHandler) logSendFailure(job entities.Job, err error) {
	if err == nil {
		return
	}
	h.logger.Error("failed to report job failure to broker", map[string]interface{}{
		"jobKey": job.Key,
		"error":  err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":             job.Key,
		"jobType":            job.Type,
		"errorCode":          string(stdErr.Code),
		"message":            stdErr.Message,
		"details":            stdErr.Details,
		"metadata":           stdErr.Metadata,
		"retryable":          stdErr.Retryable,
		"retries":            bpmnErr.Retries,
		"errorCategory":      GetErrorCategory(stdErr.Code),
		"processInstanceKey": job.ProcessInstanceKey,
	})
}
