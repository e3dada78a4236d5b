package compensation

import (
	"context"
	"fmt"
	"time"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"
	"realty-crm/internal/common/validation"
	"realty-crm/internal/models"
	"realty-crm/internal/revalidate"

	"github.com/shopspring/decimal"
)

// Period bounds a salary computation. A zero From or To is open-ended.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Store interface {
	ListCompletedTasks(ctx context.Context, userID string, period Period) ([]models.Task, error)
	ListApprovedReports(ctx context.Context, userID string, period Period) ([]models.JobReport, error)
	ListSalaryParameters(ctx context.Context) ([]models.SalaryParameter, error)
	UpsertSalaryParameter(ctx context.Context, p *models.SalaryParameter) error
}

type Revalidator interface {
	Revalidate(ctx context.Context, views ...string) error
}

type Service struct {
	store       Store
	cache       *RateCache
	revalidator Revalidator
	logger      logger.Logger
	now         func() time.Time
}

// NewService builds the salary service. cache may be nil, in which case
// every computation reads rates from the store.
func NewService(store Store, cache *RateCache, revalidator Revalidator, log logger.Logger) *Service {
	return &Service{
		store:       store,
		cache:       cache,
		revalidator: revalidator,
		logger:      log.WithFields(map[string]interface{}{"component": "compensation"}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Salary(ctx context.Context, userID string, period Period) (*Breakdown, error) {
	if err := validation.Struct(struct {
		UserID string `validate:"required,uuid"`
	}{userID}); err != nil {
		return nil, err
	}
	if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
		return nil, apperrors.NewValidationError("period end is before its start")
	}

	tasks, err := s.store.ListCompletedTasks(ctx, userID, period)
	if err != nil {
		return nil, apperrors.FromStore("list_completed_tasks", err)
	}
	reports, err := s.store.ListApprovedReports(ctx, userID, period)
	if err != nil {
		return nil, apperrors.FromStore("list_approved_reports", err)
	}
	rates, err := s.Rates(ctx)
	if err != nil {
		return nil, err
	}

	b := Compute(tasks, reports, rates)
	s.logger.Debug("salary computed", map[string]interface{}{
		"userId": userID,
		"total":  b.Total.String(),
	})
	return &b, nil
}

// Rates returns the rate table, from cache when possible.
func (s *Service) Rates(ctx context.Context) (models.RateTable, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		table, g, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn("rate cache read failed", map[string]interface{}{"error": err.Error()})
		case ok:
			metrics.SalaryComputations.WithLabelValues("cache").Inc()
			return table, nil
		default:
			gen, cacheable = g, true
		}
	}

	params, err := s.store.ListSalaryParameters(ctx)
	if err != nil {
		return nil, apperrors.FromStore("list_salary_parameters", err)
	}
	table := make(models.RateTable, len(params))
	for _, p := range params {
		table[p.Name] = p.Rate
	}
	metrics.SalaryComputations.WithLabelValues("db").Inc()

	if cacheable {
		if err := s.cache.Set(ctx, gen, table); err != nil {
			s.logger.Warn("rate cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return table, nil
}

// SetRate updates one salary parameter. Only admins may change rates.
func (s *Service) SetRate(ctx context.Context, actor models.Actor, name models.SalaryParameterName, rate decimal.Decimal) (*models.SalaryParameter, error) {
	if err := validation.Struct(actor); err != nil {
		return nil, err
	}
	if !actor.Role.CanReview() {
		return nil, apperrors.NewUnauthorizedError(fmt.Sprintf("role %s cannot change salary parameters", actor.Role))
	}
	if !name.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown salary parameter %q", name))
	}
	if rate.IsNegative() {
		return nil, apperrors.NewValidationError("rate must not be negative")
	}

	param := &models.SalaryParameter{
		Name:      name,
		Rate:      rate,
		SetBy:     &actor.ID,
		UpdatedAt: s.now(),
	}
	if err := s.store.UpsertSalaryParameter(ctx, param); err != nil {
		return nil, apperrors.FromStore("upsert_salary_parameter", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Error("rate cache invalidation failed, stale rates until ttl", map[string]interface{}{
				"parameter": string(name),
				"error":     err.Error(),
			})
		}
	}
	if err := s.revalidator.Revalidate(ctx, revalidate.ViewSalary); err != nil {
		s.logger.Warn("revalidation failed", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("salary parameter updated", map[string]interface{}{
		"parameter": string(name),
		"rate":      rate.String(),
		"setBy":     actor.ID,
	})
	return param, nil
}

// ParsePeriod builds a period from inclusive YYYY-MM-DD bounds. Either bound
// may be empty.
func ParsePeriod(from, to string) (Period, error) {
	var p Period
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return Period{}, apperrors.NewValidationError("from must be YYYY-MM-DD")
		}
		p.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return Period{}, apperrors.NewValidationError("to must be YYYY-MM-DD")
		}
		p.To = t.AddDate(0, 0, 1)
	}
	return p, nil
}
