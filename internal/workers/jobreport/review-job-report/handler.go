package reviewjobreport

import (
	"context"

	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/jobreport"
	"realty-crm/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "review-job-report"

type Service interface {
	Review(ctx context.Context, actor models.Actor, reportID string, decision jobreport.Decision, comment *string) (*models.JobReport, error)
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
	if input.ReportID == "" {
		return nil, apperrors.NewValidationError("reportId is required")
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	actor := models.Actor{ID: input.ActorID, Role: models.Role(input.ActorRole)}

	report, err := h.service.Review(ctx, actor, input.ReportID, jobreport.Decision(input.Decision), input.Comment)
	if err != nil {
		return nil, err
	}

	return &Output{
		ReportID:   report.ID,
		Status:     string(report.Status),
		ReviewedBy: actor.ID,
		AuthorID:   report.UserID,
	}, nil
}
