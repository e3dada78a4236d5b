package postgres

import (
	"context"
	"database/sql"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/models"
)

const profileColumns = `id, full_name, role, phone, email`

func scanProfile(row scanner) (*models.Profile, error) {
	var (
		p            models.Profile
		phone, email sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.Role, &phone, &email); err != nil {
		return nil, err
	}
	p.Phone = stringPtr(phone)
	p.Email = stringPtr(email)
	return &p, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID))
	if isNoRows(err) {
		return nil, apperrors.NewNotFoundError("profile", userID)
	}
	return p, err
}

// ListProfilesByRole returns the oldest profiles first.
func (s *Store) ListProfilesByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE role = $1 ORDER BY created_at, id`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetContact(ctx context.Context, userID string) (*models.Contact, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &models.Contact{UserID: p.ID, FullName: p.FullName}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	return c, nil
}
