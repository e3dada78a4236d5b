package dispatchnotification

import (
	"context"

	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/models"
	"realty-crm/internal/notification"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "dispatch-notification"

type Notifier interface {
	Notify(ctx context.Context, userID, eventType string, payload notification.Payload) bool
}

type Enqueuer interface {
	Submit(job notification.Job) bool
}

// Handler never fails a job for a notification that could not be delivered.
// Notifications are best effort and the outcome is reported in the output.
type Handler struct {
	config     *Config
	notifier   Notifier
	enqueuer   Enqueuer
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(cfg *Config, notifier Notifier, enqueuer Enqueuer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		notifier:   notifier,
		enqueuer:   enqueuer,
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
	if input.UserID == "" || input.EventType == "" {
		return nil, apperrors.NewValidationError("userId and eventType are required")
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	payload := notification.Payload{Data: input.Data}
	for _, ch := range input.Channels {
		payload.Channels = append(payload.Channels, models.Channel(ch))
	}

	out := &Output{EventType: input.EventType}
	if input.Async {
		out.Accepted = h.enqueuer.Submit(notification.Job{
			UserID:    input.UserID,
			EventType: input.EventType,
			Payload:   payload,
		})
		return out, nil
	}

	out.Delivered = h.notifier.Notify(ctx, input.UserID, input.EventType, payload)
	out.Accepted = out.Delivered
	if !out.Delivered {
		h.logger.Warn("notification was not recorded", map[string]interface{}{
			"userId":    input.UserID,
			"eventType": input.EventType,
		})
	}
	return out, nil
}
