package submitjobreport

import (
	"context"
	"time"

	"realty-crm/internal/common/camunda"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/jobreport"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "submit-job-report"

type Service interface {
	Submit(ctx context.Context, req jobreport.SubmitRequest) (*jobreport.SubmitResult, error)
	// Location is the zone report dates are read in.
	Location() *time.Location
}

type Handler struct {
	config     *Config
	service    Service
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(cfg *Config, service Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     cfg,
		service:    service,
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
	day := h.now()
	if input.ReportDate != "" {
		d, err := time.ParseInLocation("2006-01-02", input.ReportDate, h.service.Location())
		if err != nil {
			return nil, apperrors.NewValidationError("reportDate must be YYYY-MM-DD")
		}
		day = d
	}

	res, err := h.service.Submit(ctx, jobreport.SubmitRequest{
		UserID:           input.UserID,
		ReportDate:       day,
		Details:          input.Details,
		TravelDistanceKm: input.TravelDistanceKm,
		SiteVisits:       input.SiteVisits,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Success:    res.Success,
		ReportID:   res.Report.ID,
		ReportDate: res.Report.ReportDate.Format("2006-01-02"),
		ReportTo:   res.Report.ReportTo,
		Status:     string(res.Report.Status),
	}, nil
}
