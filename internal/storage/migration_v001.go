package storage

import "database/sql"

// migrateV001 creates the initial montycal schema. Every statement uses
// IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT,
			start_time  TEXT,
			end_time    TEXT,
			category_id TEXT,
			color       TEXT,
			start_date  TEXT NOT NULL,
			end_date    TEXT,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,

		// event_ids is a JSON array kept in insertion order.
		`CREATE TABLE IF NOT EXISTS days (
			date_key         TEXT PRIMARY KEY,
			background_color TEXT,
			category_id      TEXT,
			notes            TEXT,
			event_ids        TEXT NOT NULL DEFAULT '[]'
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			color      TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_end_date   ON events(end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_category   ON events(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_sort   ON categories(sort_order)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
