package appointmentreminders

import (
	"context"
	"time"

	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/notification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// TaskType is meant for a timer-started process that scans on a schedule.
const TaskType = "appointment-reminders"

type Scanner interface {
	Scan(ctx context.Context, now time.Time) (*notification.ScanResult, error)
}

type Handler struct {
	config     *Config
	scanner    Scanner
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(cfg *Config, scanner Scanner, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		scanner:    scanner,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
		now:        time.Now,
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
	now := h.now()
	if input.ReferenceTime != "" {
		t, err := time.Parse(time.RFC3339, input.ReferenceTime)
		if err != nil {
			return nil, apperrors.NewValidationError("referenceTime must be RFC 3339")
		}
		now = t
	}

	res, err := h.scanner.Scan(ctx, now)
	if err != nil {
		return nil, apperrors.FromStore("list_appointments", err)
	}
	return &Output{
		Appointments: res.Appointments,
		Enqueued:     res.Enqueued,
		Rejected:     res.Rejected,
	}, nil
}
