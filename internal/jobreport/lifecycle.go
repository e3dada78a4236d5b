// Package jobreport implements daily job report submission and review.
package jobreport

import (
	"context"
	"fmt"
	"time"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"
	"realty-crm/internal/common/observability"
	"realty-crm/internal/common/validation"
	"realty-crm/internal/models"
	"realty-crm/internal/notification"
	"realty-crm/internal/revalidate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const dateLayout = "2006-01-02"

type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	ListProfilesByRole(ctx context.Context, role models.Role) ([]models.Profile, error)
	// FindJobReport returns nil, nil when the user has no report for day.
	FindJobReport(ctx context.Context, userID string, day time.Time) (*models.JobReport, error)
	GetJobReport(ctx context.Context, reportID string) (*models.JobReport, error)
	InsertJobReport(ctx context.Context, r *models.JobReport) error
	// ReviewJobReport moves the report from one status to another only if it
	// still has the from status, and reports whether a row changed.
	ReviewJobReport(ctx context.Context, reportID string, from, to models.ReportStatus, reviewerID string, at time.Time, comment *string) (bool, error)
}

type Enqueuer interface {
	Submit(job notification.Job) bool
}

type Revalidator interface {
	Revalidate(ctx context.Context, views ...string) error
}

type SubmitRequest struct {
	UserID           string           `json:"userId" validate:"required,uuid"`
	ReportDate       time.Time        `json:"reportDate" validate:"required"`
	Details          string           `json:"details" validate:"required,max=10000"`
	TravelDistanceKm *decimal.Decimal `json:"travelDistanceKm,omitempty"`
	SiteVisits       *int             `json:"siteVisits,omitempty" validate:"omitempty,gte=0"`
}

type SubmitResult struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Report  *models.JobReport `json:"report,omitempty"`
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type Lifecycle struct {
	store       Store
	enqueuer    Enqueuer
	revalidator Revalidator
	logger      logger.Logger
	loc         *time.Location
	now         func() time.Time
}

func NewLifecycle(store Store, enqueuer Enqueuer, revalidator Revalidator, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		store:       store,
		enqueuer:    enqueuer,
		revalidator: revalidator,
		logger:      log.WithFields(map[string]interface{}{"component": "job_report_lifecycle"}),
		loc:         time.UTC,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithLocation files reports under the calendar day of loc instead of UTC.
func (l *Lifecycle) WithLocation(loc *time.Location) *Lifecycle {
	if loc != nil {
		l.loc = loc
	}
	return l
}

func (l *Lifecycle) Location() *time.Location { return l.loc }

// ReportDay returns the calendar day t falls on in loc, as midnight UTC.
func ReportDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Submit files the user's report for one day. A failed submission returns an
// unsuccessful result along with the error.
func (l *Lifecycle) Submit(ctx context.Context, req SubmitRequest) (res *SubmitResult, err error) {
	ctx, span := observability.StartSpan(ctx, "jobreport.submit", attribute.String("user_id", req.UserID))
	defer func() {
		observability.EndSpan(span, err)
		metrics.JobReportsTotal.WithLabelValues("submit", outcome(err)).Inc()
		if err != nil {
			res = &SubmitResult{Success: false, Error: err.Error()}
		}
	}()

	log := l.logger.WithFields(map[string]interface{}{"userId": req.UserID})

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.TravelDistanceKm != nil && req.TravelDistanceKm.IsNegative() {
		return nil, apperrors.NewValidationError("TravelDistanceKm must be at least 0")
	}

	author, err := l.store.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, apperrors.FromStore("load_profile", err)
	}

	day := ReportDay(req.ReportDate, l.loc)
	existing, err := l.store.FindJobReport(ctx, req.UserID, day)
	if err != nil {
		return nil, apperrors.FromStore("find_job_report", err)
	}
	if existing != nil {
		log.Info("duplicate job report rejected", map[string]interface{}{"reportDate": day.Format(dateLayout)})
		return nil, apperrors.NewDuplicateReportError(req.UserID, day.Format(dateLayout))
	}

	reportTo, err := l.resolveSupervisor(ctx, author.Role)
	if err != nil {
		log.Warn("no supervisor for job report", map[string]interface{}{"role": string(author.Role)})
		return nil, err
	}

	report := &models.JobReport{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		ReportTo:   reportTo,
		ReportDate: day,
		Details:    req.Details,
		SiteVisits: req.SiteVisits,
		Status:     models.ReportSubmitted,
		CreatedAt:  l.now(),
	}
	if req.TravelDistanceKm != nil {
		report.TravelDistanceKm = decimal.NewNullDecimal(*req.TravelDistanceKm)
	}

	if err := l.store.InsertJobReport(ctx, report); err != nil {
		err = apperrors.FromStore("insert_job_report", err)
		log.Error("job report insert failed", map[string]interface{}{
			"reportDate": day.Format(dateLayout),
			"error":      err.Error(),
		})
		return nil, err
	}

	l.revalidate(ctx, log)
	log.Info("job report submitted", map[string]interface{}{
		"reportId":   report.ID,
		"reportDate": day.Format(dateLayout),
	})
	return &SubmitResult{Success: true, Report: report}, nil
}

// resolveSupervisor returns who reports of the given role go to. Super admins
// report to nobody.
func (l *Lifecycle) resolveSupervisor(ctx context.Context, role models.Role) (*string, error) {
	var superior models.Role
	switch role {
	case models.RoleSuperAdmin:
		return nil, nil
	case models.RoleAdmin:
		superior = models.RoleSuperAdmin
	default:
		superior = models.RoleAdmin
	}

	profiles, err := l.store.ListProfilesByRole(ctx, superior)
	if err != nil {
		return nil, apperrors.FromStore("resolve_supervisor", err)
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewNoSupervisorError(string(role))
	}
	if len(profiles) > 1 {
		l.logger.Warn("multiple supervisors found, using the first", map[string]interface{}{
			"role":  string(superior),
			"count": len(profiles),
		})
	}
	id := profiles[0].ID
	return &id, nil
}

// Review approves or rejects a submitted report. Approved and rejected are
// terminal.
func (l *Lifecycle) Review(ctx context.Context, actor models.Actor, reportID string, decision Decision, comment *string) (report *models.JobReport, err error) {
	ctx, span := observability.StartSpan(ctx, "jobreport.review",
		attribute.String("report_id", reportID),
		attribute.String("decision", string(decision)),
	)
	defer func() {
		observability.EndSpan(span, err)
		metrics.JobReportsTotal.WithLabelValues("review", outcome(err)).Inc()
	}()

	log := l.logger.WithFields(map[string]interface{}{
		"reportId": reportID,
		"actorId":  actor.ID,
	})

	if err := validation.Struct(actor); err != nil {
		return nil, err
	}
	if !actor.Role.CanReview() {
		log.Warn("review rejected: insufficient role", map[string]interface{}{"role": string(actor.Role)})
		return nil, apperrors.NewUnauthorizedError(fmt.Sprintf("role %s cannot review job reports", actor.Role))
	}

	var to models.ReportStatus
	switch decision {
	case DecisionApproved:
		to = models.ReportApproved
	case DecisionRejected:
		to = models.ReportRejected
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("decision must be one of [approved rejected], got %q", decision))
	}

	report, err = l.store.GetJobReport(ctx, reportID)
	if err != nil {
		return nil, apperrors.FromStore("load_job_report", err)
	}
	if report.Status != models.ReportSubmitted {
		return nil, apperrors.NewInvalidTransitionError(string(report.Status), string(to))
	}

	at := l.now()
	ok, err := l.store.ReviewJobReport(ctx, reportID, models.ReportSubmitted, to, actor.ID, at, comment)
	if err != nil {
		return nil, apperrors.NewPersistenceError("review_job_report", err).WithMetadata("reportId", reportID)
	}
	if !ok {
		log.Warn("report reviewed concurrently", nil)
		return nil, apperrors.NewInvalidTransitionError(string(models.ReportSubmitted), string(to))
	}

	report.Status = to
	report.ReviewedBy = &actor.ID
	report.ReviewedAt = &at
	report.ReviewComment = comment

	data := map[string]interface{}{
		"status":     string(to),
		"reportDate": report.ReportDate.Format(dateLayout),
	}
	if comment != nil {
		data["comment"] = *comment
	}
	if !l.enqueuer.Submit(notification.Job{
		UserID:    report.UserID,
		EventType: string(notification.EventApprovalStatus),
		Payload:   notification.Payload{Data: data},
	}) {
		log.Warn("approval notification not enqueued", nil)
	}

	l.revalidate(ctx, log)
	log.Info("job report reviewed", map[string]interface{}{"status": string(to)})
	return report, nil
}

func (l *Lifecycle) revalidate(ctx context.Context, log logger.Logger) {
	if err := l.revalidator.Revalidate(ctx, revalidate.ViewJobReports); err != nil {
		log.Warn("revalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(apperrors.CodeOf(err))
}
