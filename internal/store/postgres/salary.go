package postgres

import (
	"context"
	"database/sql"

	"realty-crm/internal/models"
)

func (s *Store) ListSalaryParameters(ctx context.Context) ([]models.SalaryParameter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, rate, set_by, updated_at FROM salary_parameters ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SalaryParameter
	for rows.Next() {
		var (
			p     models.SalaryParameter
			setBy sql.NullString
		)
		if err := rows.Scan(&p.Name, &p.Rate, &setBy, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.SetBy = stringPtr(setBy)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpsertSalaryParameter(ctx context.Context, p *models.SalaryParameter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO salary_parameters (name, rate, set_by, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET rate = EXCLUDED.rate, set_by = EXCLUDED.set_by, updated_at = EXCLUDED.updated_at`,
		string(p.Name), p.Rate, p.SetBy, p.UpdatedAt)
	return err
}
