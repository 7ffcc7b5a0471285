package storage

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func migratedDB(t *testing.T) (*sql.DB, *MigrationRunner) {
	t.Helper()
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())
	return db, runner
}

func schemaObjects(t *testing.T, db *sql.DB, kind string) map[string]bool {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = ?", kind)
	require.NoError(t, err)
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names[n] = true
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrationRunner_CreatesSchema(t *testing.T) {
	db, _ := migratedDB(t)

	tables := schemaObjects(t, db, "table")
	for _, want := range []string{"events", "days", "categories", "schema_migrations"} {
		assert.True(t, tables[want], "missing table %s", want)
	}

	indexes := schemaObjects(t, db, "index")
	for _, want := range []string{"idx_events_start_date", "idx_events_end_date", "idx_events_category", "idx_categories_sort"} {
		assert.True(t, indexes[want], "missing index %s", want)
	}
}

func TestMigrationRunner_RerunIsNoop(t *testing.T) {
	db, runner := migratedDB(t)
	require.NoError(t, runner.Run())
	require.NoError(t, NewMigrationRunner(db).Run())

	var recorded int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&recorded))
	assert.Equal(t, len(schemaSteps), recorded)
}

func TestMigrationRunner_RecordsLabel(t *testing.T) {
	db, runner := migratedDB(t)

	var label string
	require.NoError(t, db.QueryRow("SELECT name FROM schema_migrations WHERE version = 1").Scan(&label))
	assert.Equal(t, "initial_schema", label)

	current, err := runner.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, schemaSteps[len(schemaSteps)-1].version, current)
}

func TestMigrationRunner_CurrentVersionBeforeRun(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(ledgerDDL)
	require.NoError(t, err)

	current, err := NewMigrationRunner(db).CurrentVersion()
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestMigrationRunner_JournalMode(t *testing.T) {
	db, _ := migratedDB(t)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	// :memory: databases stay in "memory" mode whatever is requested.
	assert.Contains(t, []string{"wal", "memory"}, mode)
}

func TestMigrationRunner_EmptyJournalModeSkipsPragma(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db).WithJournalMode("")
	require.NoError(t, runner.Run())

	current, err := runner.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, current)
}

func TestMigrationRunner_FailedStepRollsBack(t *testing.T) {
	db := openTestDB(t)
	runner := NewMigrationRunner(db)
	runner.steps = append(runner.steps, schemaStep{
		version: 99,
		label:   "broken",
		up: func(tx *sql.Tx) error {
			if _, err := tx.Exec("CREATE TABLE scratch (x INTEGER)"); err != nil {
				return err
			}
			_, err := tx.Exec("NOT VALID SQL")
			return err
		},
	})

	err := runner.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 99 (broken)")

	assert.False(t, schemaObjects(t, db, "table")["scratch"])
	current, err := runner.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, current)
}

func TestMigrationRunner_DaysDefaultEventIDs(t *testing.T) {
	db, _ := migratedDB(t)

	_, err := db.Exec(`INSERT INTO days (date_key) VALUES ('2024-01-01')`)
	require.NoError(t, err)

	var ids string
	require.NoError(t, db.QueryRow("SELECT event_ids FROM days WHERE date_key = '2024-01-01'").Scan(&ids))
	assert.Equal(t, "[]", ids)
}
