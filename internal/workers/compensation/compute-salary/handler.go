package computesalary

import (
	"context"

	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/compensation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-salary"

type Service interface {
	Salary(ctx context.Context, userID string, period compensation.Period) (*compensation.Breakdown, error)
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
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	period, err := compensation.ParsePeriod(input.From, input.To)
	if err != nil {
		return nil, err
	}

	b, err := h.service.Salary(ctx, input.UserID, period)
	if err != nil {
		return nil, err
	}

	h.logger.Info("salary computed", map[string]interface{}{
		"userId": input.UserID,
		"total":  b.Total.StringFixed(2),
	})
	return &Output{UserID: input.UserID, Breakdown: *b}, nil
}
