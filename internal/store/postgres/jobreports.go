package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/compensation"
	"realty-crm/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	uniqueViolation     = "23505"
	reportDayConstraint = "uq_job_reports_user_day"
	jobReportColumns    = `id, user_id, report_to, report_date, details, travel_distance_km, site_visits, status, reviewed_by, reviewed_at, review_comment, created_at`
)

func scanJobReport(row scanner) (*models.JobReport, error) {
	var (
		r                             models.JobReport
		reportTo, reviewedBy, comment sql.NullString
		km                            decimal.NullDecimal
		visits                        sql.NullInt32
		reviewedAt                    sql.NullTime
	)
	err := row.Scan(&r.ID, &r.UserID, &reportTo, &r.ReportDate, &r.Details, &km, &visits,
		&r.Status, &reviewedBy, &reviewedAt, &comment, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.ReportTo = stringPtr(reportTo)
	r.TravelDistanceKm = km
	if visits.Valid {
		v := int(visits.Int32)
		r.SiteVisits = &v
	}
	r.ReviewedBy = stringPtr(reviewedBy)
	r.ReviewedAt = timePtr(reviewedAt)
	r.ReviewComment = stringPtr(comment)
	return &r, nil
}

func (s *Store) FindJobReport(ctx context.Context, userID string, day time.Time) (*models.JobReport, error) {
	r, err := scanJobReport(s.db.QueryRowContext(ctx,
		`SELECT `+jobReportColumns+` FROM job_reports WHERE user_id = $1 AND report_date = $2`,
		userID, day.Format("2006-01-02")))
	if isNoRows(err) {
		return nil, nil
	}
	return r, err
}

func (s *Store) GetJobReport(ctx context.Context, reportID string) (*models.JobReport, error) {
	r, err := scanJobReport(s.db.QueryRowContext(ctx,
		`SELECT `+jobReportColumns+` FROM job_reports WHERE id = $1`, reportID))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("job_report", reportID)
	}
	return r, err
}

func (s *Store) InsertJobReport(ctx context.Context, r *models.JobReport) error {
	day := r.ReportDate.Format("2006-01-02")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_reports (
			id, user_id, report_to, report_date, details, travel_distance_km, site_visits, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.UserID, r.ReportTo, day, r.Details, r.TravelDistanceKm, r.SiteVisits, string(r.Status), r.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == reportDayConstraint {
		return apperrors.NewDuplicateReportError(r.UserID, day)
	}
	return err
}

func (s *Store) ReviewJobReport(ctx context.Context, reportID string, from, to models.ReportStatus, reviewerID string, at time.Time, comment *string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_reports
		SET status = $3, reviewed_by = $4, reviewed_at = $5, review_comment = $6
		WHERE id = $1 AND status = $2`,
		reportID, string(from), string(to), reviewerID, at, comment)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) ListApprovedReports(ctx context.Context, userID string, period compensation.Period) ([]models.JobReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobReportColumns+`
		FROM job_reports
		WHERE user_id = $1 AND status = 'approved'
		  AND ($2::timestamptz IS NULL OR report_date >= $2::timestamptz)
		  AND ($3::timestamptz IS NULL OR report_date < $3::timestamptz)
		ORDER BY report_date`,
		userID, bound(period.From), bound(period.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobReport
	for rows.Next() {
		r, err := scanJobReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
