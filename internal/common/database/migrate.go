package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationLogger adapts logger.Logger to migrate.Logger.
type migrationLogger struct {
	log logger.Logger
}

func (l migrationLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), nil)
}

func (l migrationLogger) Verbose() bool {
	return false
}

// MigrationService applies the embedded schema migrations.
type MigrationService struct {
	databaseURL string
	logger      logger.Logger
}

func NewMigrationService(databaseURL string, log logger.Logger) *MigrationService {
	return &MigrationService{
		databaseURL: databaseURL,
		logger:      log.WithFields(map[string]interface{}{"component": "migrations"}),
	}
}

func (ms *MigrationService) open() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, ms.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrationLogger{log: ms.logger}
	return m, nil
}

// Up applies every pending migration. Cancelling ctx stops after the
// migration in flight finishes.
func (ms *MigrationService) Up(ctx context.Context) error {
	return ms.run(ctx, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// Steps applies n migrations, or rolls back |n| when n is negative.
func (ms *MigrationService) Steps(ctx context.Context, n int) error {
	return ms.run(ctx, fmt.Sprintf("steps(%d)", n), func(m *migrate.Migrate) error { return m.Steps(n) })
}

// Version reports the current schema version and whether it is dirty.
func (ms *MigrationService) Version() (uint, bool, error) {
	m, err := ms.open()
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (ms *MigrationService) run(ctx context.Context, op string, fn func(*migrate.Migrate) error) error {
	m, err := ms.open()
	if err != nil {
		return err
	}
	defer m.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	start := time.Now()
	err = fn(m)
	if errors.Is(err, migrate.ErrNoChange) {
		ms.logger.Info("no new migrations to apply", nil)
		return nil
	}
	if err != nil {
		version, dirty, _ := m.Version()
		ms.logger.Error("migration failed", map[string]interface{}{
			"op":      op,
			"error":   err.Error(),
			"version": version,
			"dirty":   dirty,
		})
		return fmt.Errorf("migration %s failed: %w", op, err)
	}

	version, _, _ := m.Version()
	ms.logger.Info("migrations applied", map[string]interface{}{
		"op":       op,
		"version":  version,
		"duration": time.Since(start).String(),
	})
	return nil
}
