package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_UpAndDownPaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}

	assert.Equal(t, ups, downs)
}

func TestEmbeddedMigrations_SchemaCarriesDailyReportConstraint(t *testing.T) {
	body, err := fs.ReadFile(migrationFS, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "UNIQUE (user_id, report_date)")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS salary_parameters")
}

func TestEmbeddedMigrations_OneLiveAssignmentPerInterest(t *testing.T) {
	body, err := fs.ReadFile(migrationFS, "migrations/000003_live_assignment_unique.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "CREATE UNIQUE INDEX IF NOT EXISTS uq_agent_assignments_live")
	assert.Contains(t, string(body), "WHERE status IN ('assigned', 'in_progress')")
}
