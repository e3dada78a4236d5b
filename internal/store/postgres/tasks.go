package postgres

import (
	"context"
	"database/sql"

	"realty-crm/internal/compensation"
	"realty-crm/internal/models"
)

// ListCompletedTasks returns Done tasks assigned to the user whose last
// update falls in the period.
func (s *Store) ListCompletedTasks(ctx context.Context, userID string, period compensation.Period) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, assigned_to, created_by, status, task_type, priority,
		       due_date, related_property_id, related_lead_id, created_at
		FROM tasks
		WHERE assigned_to = $1 AND status = 'Done'
		  AND ($2::timestamptz IS NULL OR updated_at >= $2::timestamptz)
		  AND ($3::timestamptz IS NULL OR updated_at < $3::timestamptz)
		ORDER BY created_at`,
		userID, bound(period.From), bound(period.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var (
			t              models.Task
			due            sql.NullTime
			property, lead sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.CreatedBy, &t.Status,
			&t.TaskType, &t.Priority, &due, &property, &lead, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.DueDate = timePtr(due)
		t.RelatedPropertyID = stringPtr(property)
		t.RelatedLeadID = stringPtr(lead)
		out = append(out, t)
	}
	return out, rows.Err()
}
