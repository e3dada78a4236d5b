package assigninterest

import (
	"context"
	"time"

	"realty-crm/internal/assignment"
	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "assign-interest"

type Service interface {
	Assign(ctx context.Context, req assignment.AssignRequest) (*assignment.AssignResult, error)
}

type Handler struct {
	config     *Config
	service    Service
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(cfg *Config, service Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		service:    service,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := assignment.AssignRequest{
		InterestID:     input.InterestID,
		AgentID:        input.AgentID,
		AssignedBy:     input.AssignedBy,
		Priority:       models.Priority(input.Priority),
		AssignmentType: input.AssignmentType,
		Notes:          input.Notes,
	}
	if input.DueDate != "" {
		due, err := parseDate(input.DueDate)
		if err != nil {
			return nil, apperrors.NewValidationError("dueDate must be YYYY-MM-DD or RFC 3339")
		}
		req.DueDate = &due
	}

	res, err := h.service.Assign(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Status:   string(res.Status),
		Success:  res.Success,
		Message:  res.Message,
		Warnings: res.Warnings,
	}
	if res.Assignment != nil {
		out.AssignmentID = res.Assignment.ID
	}
	if res.Task != nil {
		out.TaskID = res.Task.ID
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
