package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"realty-crm/internal/models"
)

func (s *Store) InsertNotification(ctx context.Context, n *models.NotificationEvent) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, channel, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, data, string(n.Channel), n.Read, n.CreatedAt,
	)
	return err
}

// MarkNotificationRead only touches the row when it belongs to userID.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (s *Store) ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, interest_id, customer_id, agent_id, property_title, scheduled_at, location
		FROM appointments
		WHERE scheduled_at >= $1 AND scheduled_at < $2
		ORDER BY scheduled_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		var (
			a        models.Appointment
			interest sql.NullString
		)
		if err := rows.Scan(&a.ID, &interest, &a.CustomerID, &a.AgentID, &a.PropertyTitle, &a.ScheduledAt, &a.Location); err != nil {
			return nil, err
		}
		a.InterestID = stringPtr(interest)
		out = append(out, a)
	}
	return out, rows.Err()
}
