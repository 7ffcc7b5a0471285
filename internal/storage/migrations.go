package storage

import (
	"database/sql"
	"fmt"
)

// schemaStep is one numbered, transactional change to the montycal schema.
type schemaStep struct {
	version int
	label   string
	up      func(tx *sql.Tx) error
}

// schemaSteps lists every step in ascending version order.
var schemaSteps = []schemaStep{
	{version: 1, label: "initial_schema", up: migrateV001},
}

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// MigrationRunner brings a SQLite database up to the latest schema version.
type MigrationRunner struct {
	db          *sql.DB
	journalMode string
	steps       []schemaStep
}

// NewMigrationRunner returns a runner for db that switches it to WAL first.
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db, journalMode: "WAL", steps: schemaSteps}
}

// WithJournalMode overrides the journal mode. Empty keeps the database default.
func (r *MigrationRunner) WithJournalMode(mode string) *MigrationRunner {
	r.journalMode = mode
	return r
}

// Run applies every step not yet recorded in schema_migrations.
func (r *MigrationRunner) Run() error {
	if mode := r.journalMode; mode != "" {
		if _, err := r.db.Exec("PRAGMA journal_mode = " + mode); err != nil {
			return fmt.Errorf("set journal mode %s: %w", mode, err)
		}
	}
	if _, err := r.db.Exec(ledgerDDL); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}

	done, err := r.appliedVersions()
	if err != nil {
		return err
	}
	for _, step := range r.steps {
		if done[step.version] {
			continue
		}
		if err := r.runStep(step); err != nil {
			return fmt.Errorf("migration %d (%s): %w", step.version, step.label, err)
		}
	}
	return nil
}

// CurrentVersion reports the newest recorded version; 0 means none.
func (r *MigrationRunner) CurrentVersion() (int, error) {
	var v sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func (r *MigrationRunner) appliedVersions() (map[int]bool, error) {
	rows, err := r.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	done := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

// runStep applies step and records it in the same transaction.
func (r *MigrationRunner) runStep(step schemaStep) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := step.up(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, step.version, step.label); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return tx.Commit()
}
