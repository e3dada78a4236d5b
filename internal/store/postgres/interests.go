package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/models"

	"github.com/lib/pq"
)

const liveAssignmentConstraint = "uq_agent_assignments_live"

func (s *Store) GetInterestDetail(ctx context.Context, interestID string) (*models.InterestDetail, error) {
	var (
		d         models.InterestDetail
		preferred sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT pi.id, pi.customer_id, pi.property_id, pi.status, pi.preferred_meeting_time, pi.created_at,
		       p.title, COALESCE(c.full_name, '')
		FROM property_interests pi
		JOIN properties p ON p.id = pi.property_id
		LEFT JOIN profiles c ON c.id = pi.customer_id
		WHERE pi.id = $1`, interestID).
		Scan(&d.ID, &d.CustomerID, &d.PropertyID, &d.Status, &preferred, &d.CreatedAt,
			&d.PropertyTitle, &d.CustomerName)
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("property_interest", interestID)
	}
	if err != nil {
		return nil, err
	}
	d.PreferredMeetingTime = timePtr(preferred)
	return &d, nil
}

func (s *Store) CompareAndSetInterestStatus(ctx context.Context, interestID string, from, to models.InterestStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE property_interests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		interestID, string(from), string(to))
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) CreateAssignment(ctx context.Context, a *models.AgentAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_assignments (
			id, property_interest_id, agent_id, customer_id, assigned_by,
			status, priority, assignment_type, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.PropertyInterestID, a.AgentID, a.CustomerID, a.AssignedBy,
		string(a.Status), string(a.Priority), a.AssignmentType, a.Notes, a.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == liveAssignmentConstraint {
		return apperrors.NewConflictError("interest " + a.PropertyInterestID + " already has a live assignment")
	}
	return err
}

// CancelLiveAssignments cancels every assigned or in-progress assignment of
// the interest and returns what each one was before.
func (s *Store) CancelLiveAssignments(ctx context.Context, interestID string) ([]models.CancelledAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH live AS (
			SELECT id, status FROM agent_assignments
			WHERE property_interest_id = $1 AND status IN ('assigned', 'in_progress')
			FOR UPDATE
		)
		UPDATE agent_assignments a
		SET status = 'cancelled'
		FROM live
		WHERE a.id = live.id
		RETURNING a.id, live.status`, interestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CancelledAssignment
	for rows.Next() {
		var c models.CancelledAssignment
		if err := rows.Scan(&c.ID, &c.PreviousStatus); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RestoreAssignment moves a cancelled assignment back to status.
func (s *Store) RestoreAssignment(ctx context.Context, assignmentID string, status models.AssignmentStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE agent_assignments SET status = $2
		WHERE id = $1 AND status = 'cancelled'`,
		assignmentID, string(status))
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, assigned_to, created_by, status, task_type,
			priority, due_date, related_property_id, related_lead_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		t.ID, t.Title, t.Description, t.AssignedTo, t.CreatedBy, string(t.Status), string(t.TaskType),
		string(t.Priority), t.DueDate, t.RelatedPropertyID, t.RelatedLeadID, t.CreatedAt,
	)
	return err
}
