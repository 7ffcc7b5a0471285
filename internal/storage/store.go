package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/runnerr0/montycal/internal/model"
)

// Repository is the persistence contract the calendar store writes
// through. Implementations own their own timeouts; none are imposed here.
type Repository interface {
	GetEvents(ctx context.Context) (map[string]model.Event, error)
	SaveEvent(ctx context.Context, event model.Event) error
	DeleteEvent(ctx context.Context, id string) error

	GetDayData(ctx context.Context) (map[model.Date]model.DayRecord, error)
	SaveDayData(ctx context.Context, day model.DayRecord) error
	DeleteDayData(ctx context.Context, date model.Date) error

	GetCategories(ctx context.Context) ([]model.Category, error)
	SaveCategories(ctx context.Context, categories []model.Category) error

	// ExportAll serializes events, days and categories as one snapshot.
	ExportAll(ctx context.Context) ([]byte, error)
	// ImportAll replaces every collection present in the snapshot.
	ImportAll(ctx context.Context, data []byte) error

	Close() error
}

// SQLiteStore implements Repository backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertEvent *sql.Stmt
	deleteEvent *sql.Stmt
	upsertDay   *sql.Stmt
	deleteDay   *sql.Stmt
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

const upsertEventSQL = `
	INSERT INTO events (id, title, description, start_time, end_time, category_id, color,
	                    start_date, end_date, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		start_time = excluded.start_time,
		end_time = excluded.end_time,
		category_id = excluded.category_id,
		color = excluded.color,
		start_date = excluded.start_date,
		end_date = excluded.end_date,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

const upsertDaySQL = `
	INSERT INTO days (date_key, background_color, category_id, notes, event_ids)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(date_key) DO UPDATE SET
		background_color = excluded.background_color,
		category_id = excluded.category_id,
		notes = excluded.notes,
		event_ids = excluded.event_ids
`

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertEvent, err = s.db.Prepare(upsertEventSQL)
	if err != nil {
		return err
	}

	s.deleteEvent, err = s.db.Prepare(`DELETE FROM events WHERE id = ?`)
	if err != nil {
		return err
	}

	s.upsertDay, err = s.db.Prepare(upsertDaySQL)
	if err != nil {
		return err
	}

	s.deleteDay, err = s.db.Prepare(`DELETE FROM days WHERE date_key = ?`)
	if err != nil {
		return err
	}

	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func eventArgs(e model.Event) []any {
	var endDate any
	if e.EndDate != nil {
		endDate = e.EndDate.String()
	}
	return []any{
		e.ID, e.Title, nullable(e.Description), nullable(e.StartTime), nullable(e.EndTime),
		nullable(e.CategoryID), nullable(e.Color), e.StartDate.String(), endDate,
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt),
	}
}

func dayArgs(d model.DayRecord) ([]any, error) {
	ids := d.EventIDs
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode event ids: %w", err)
	}
	return []any{
		d.DateKey.String(), nullable(d.BackgroundColor), nullable(d.CategoryID),
		nullable(d.Notes), string(encoded),
	}, nil
}

// nullable maps an absent optional value to SQL NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optional(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// GetEvents loads every event keyed by id.
func (s *SQLiteStore) GetEvents(ctx context.Context) (map[string]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, category_id, color,
		       start_date, end_date, created_at, updated_at
		FROM events
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make(map[string]model.Event)
	for rows.Next() {
		var (
			e                                    model.Event
			desc, startTime, endTime, cat, color sql.NullString
			startDate                            string
			endDate                              sql.NullString
			createdAt, updatedAt                 string
		)
		if err := rows.Scan(
			&e.ID, &e.Title, &desc, &startTime, &endTime, &cat, &color,
			&startDate, &endDate, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.Description = optional(desc)
		e.StartTime = optional(startTime)
		e.EndTime = optional(endTime)
		e.CategoryID = optional(cat)
		e.Color = optional(color)

		if e.StartDate, err = model.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		if endDate.Valid {
			d, err := model.ParseDate(endDate.String)
			if err != nil {
				return nil, fmt.Errorf("event %s: %w", e.ID, err)
			}
			e.EndDate = &d
		}
		e.CreatedAt, _ = parseTimestamp(createdAt)
		e.UpdatedAt, _ = parseTimestamp(updatedAt)

		events[e.ID] = e
	}

	return events, rows.Err()
}

// SaveEvent inserts or replaces an event.
func (s *SQLiteStore) SaveEvent(ctx context.Context, event model.Event) error {
	if _, err := s.upsertEvent.ExecContext(ctx, eventArgs(event)...); err != nil {
		return fmt.Errorf("save event %s: %w", event.ID, err)
	}
	return nil
}

// DeleteEvent removes an event by id. Deleting an unknown id is not an error.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.deleteEvent.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// GetDayData loads every day record keyed by date.
func (s *SQLiteStore) GetDayData(ctx context.Context) (map[model.Date]model.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date_key, background_color, category_id, notes, event_ids FROM days
	`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := make(map[model.Date]model.DayRecord)
	for rows.Next() {
		var (
			key, ids       string
			bg, cat, notes sql.NullString
		)
		if err := rows.Scan(&key, &bg, &cat, &notes, &ids); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}

		date, err := model.ParseDate(key)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", key, err)
		}
		rec := model.NewDayRecord(date)
		rec.BackgroundColor = optional(bg)
		rec.CategoryID = optional(cat)
		rec.Notes = optional(notes)
		if err := json.Unmarshal([]byte(ids), &rec.EventIDs); err != nil {
			return nil, fmt.Errorf("day %s: decode event ids: %w", key, err)
		}
		if rec.EventIDs == nil {
			rec.EventIDs = []string{}
		}

		days[date] = rec
	}

	return days, rows.Err()
}

// SaveDayData inserts or replaces the record for day.DateKey.
func (s *SQLiteStore) SaveDayData(ctx context.Context, day model.DayRecord) error {
	args, err := dayArgs(day)
	if err != nil {
		return err
	}
	if _, err := s.upsertDay.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("save day %s: %w", day.DateKey, err)
	}
	return nil
}

// DeleteDayData removes the record for date, if any.
func (s *SQLiteStore) DeleteDayData(ctx context.Context, date model.Date) error {
	if _, err := s.deleteDay.ExecContext(ctx, date.String()); err != nil {
		return fmt.Errorf("delete day %s: %w", date, err)
	}
	return nil
}

// GetCategories returns all categories ordered by sort order.
func (s *SQLiteStore) GetCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, color, sort_order FROM categories ORDER BY sort_order, name",
	)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// SaveCategories replaces the whole category list in one transaction.
func (s *SQLiteStore) SaveCategories(ctx context.Context, categories []model.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := replaceCategories(ctx, tx, categories); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceCategories(ctx context.Context, tx execer, categories []model.Category) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range categories {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name, color, sort_order) VALUES (?, ?, ?, ?)",
			c.ID, c.Name, c.Color, c.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	return nil
}

// ExportAll serializes the full database state.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]byte, error) {
	return exportFrom(ctx, s)
}

// ImportAll replaces each collection present in data inside a single
// transaction. Collections missing from data are left untouched.
func (s *SQLiteStore) ImportAll(ctx context.Context, data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if snap.Events != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		for _, e := range snap.Events {
			if _, err := tx.ExecContext(ctx, upsertEventSQL, eventArgs(e)...); err != nil {
				return fmt.Errorf("import event %s: %w", e.ID, err)
			}
		}
	}

	if snap.Days != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM days"); err != nil {
			return fmt.Errorf("clear days: %w", err)
		}
		for _, d := range snap.Days {
			args, err := dayArgs(d)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, upsertDaySQL, args...); err != nil {
				return fmt.Errorf("import day %s: %w", d.DateKey, err)
			}
		}
	}

	if snap.Categories != nil {
		if err := replaceCategories(ctx, tx, snap.Categories); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertEvent, s.deleteEvent, s.upsertDay, s.deleteDay,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
