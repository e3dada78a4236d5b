// Package postgres implements every persistence port of the CRM on a single
// PostgreSQL database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"realty-crm/internal/assignment"
	"realty-crm/internal/compensation"
	"realty-crm/internal/jobreport"
	"realty-crm/internal/notification"
)

var (
	_ assignment.Store              = (*Store)(nil)
	_ notification.Store            = (*Store)(nil)
	_ notification.AppointmentStore = (*Store)(nil)
	_ jobreport.Store               = (*Store)(nil)
	_ compensation.Store            = (*Store)(nil)
)

// Store is safe for concurrent use; all state lives in the pool.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// bound turns an open period end into SQL NULL.
func bound(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
