// Package calendar owns the canonical event records and the per-date day
// index derived from them. Every mutation writes through a
// storage.Repository and keeps the index consistent with event spans.
//
// A Store is not safe for concurrent mutation: callers must wait for one
// mutation to return before issuing the next.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/montycal/internal/model"
	"github.com/runnerr0/montycal/internal/storage"
)

// ErrNotLoaded is returned by mutations issued before Load.
var ErrNotLoaded = errors.New("calendar store not loaded")

// SpanWriteError reports a day-index write that failed part way through an
// event's span. Records written before Date stay persisted.
type SpanWriteError struct {
	EventID string
	Op      string // "add" or "remove"
	Date    model.Date
	Written int
	Err     error
}

func (e *SpanWriteError) Error() string {
	return fmt.Sprintf("%s event %s on %s (after %d day writes): %v", e.Op, e.EventID, e.Date, e.Written, e.Err)
}

func (e *SpanWriteError) Unwrap() error { return e.Err }

// Store is the in-memory working set of events, day records and
// categories, backed by a Repository.
type Store struct {
	repo   storage.Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	events     map[string]model.Event
	days       map[model.Date]model.DayRecord
	categories []model.Category
	loaded     bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator for event and category ids.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// New returns a Store writing through repo. Call Load before use.
func New(repo storage.Repository, opts ...Option) *Store {
	s := &Store{
		repo:       repo,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		newID:      uuid.NewString,
		events:     map[string]model.Event{},
		days:       map[model.Date]model.DayRecord{},
		categories: []model.Category{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the working set with the repository's contents.
func (s *Store) Load(ctx context.Context) error {
	events, err := s.repo.GetEvents(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	days, err := s.repo.GetDayData(ctx)
	if err != nil {
		return fmt.Errorf("load days: %w", err)
	}
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	s.events = events
	s.days = days
	s.categories = categories
	s.loaded = true

	s.logger.Debug("calendar loaded", "events", len(events), "days", len(days), "categories", len(categories))
	return nil
}

func (s *Store) ensureLoaded() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// spanOf returns the dates an event occupies. Inverted spans, which can only
// arrive through import, cover no dates.
func spanOf(e model.Event) []model.Date {
	return model.DatesBetween(e.StartDate, e.LastDate())
}

// AddEvent assigns a fresh id and timestamps to e, persists it, and lists
// it on every date of its span. The returned event is the stored record.
func (s *Store) AddEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if err := s.ensureLoaded(); err != nil {
		return model.Event{}, err
	}

	now := s.timestamp()
	e.ID = s.newID()
	e.CreatedAt = now
	e.UpdatedAt = now

	dates, err := e.Span()
	if err != nil {
		return model.Event{}, err
	}

	if err := s.repo.SaveEvent(ctx, e); err != nil {
		return model.Event{}, fmt.Errorf("save event: %w", err)
	}
	s.events[e.ID] = e

	if err := s.addToDays(ctx, e.ID, dates); err != nil {
		return model.Event{}, err
	}

	s.logger.Debug("event added", "id", e.ID, "start", e.StartDate, "days", len(dates))
	return e, nil
}

// UpdateEvent merges patch into the event with the given id and moves its
// day-index entries from the old span to the new one. Unknown ids are a
// no-op.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	existing, ok := s.events[id]
	if !ok {
		return nil
	}

	updated := patch.Apply(existing)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.timestamp()

	newDates, err := updated.Span()
	if err != nil {
		return err
	}

	if err := s.removeFromDays(ctx, id, spanOf(existing)); err != nil {
		return err
	}
	if err := s.addToDays(ctx, id, newDates); err != nil {
		return err
	}

	if err := s.repo.SaveEvent(ctx, updated); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	s.events[id] = updated

	s.logger.Debug("event updated", "id", id, "start", updated.StartDate, "days", len(newDates))
	return nil
}

// DeleteEvent removes the event from every date of its span, then deletes
// the record. Unknown ids are a no-op.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	existing, ok := s.events[id]
	if !ok {
		return nil
	}

	if err := s.removeFromDays(ctx, id, spanOf(existing)); err != nil {
		return err
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	delete(s.events, id)

	s.logger.Debug("event deleted", "id", id)
	return nil
}

// addToDays appends id to the record of each date, creating records as
// needed. Each record is committed in memory only after its write succeeds.
func (s *Store) addToDays(ctx context.Context, id string, dates []model.Date) error {
	for i, d := range dates {
		rec, ok := s.days[d]
		if !ok {
			rec = model.NewDayRecord(d)
		}
		next := rec.WithEvent(id)

		if err := s.repo.SaveDayData(ctx, next); err != nil {
			return s.spanFailure("add", id, d, i, err)
		}
		s.days[d] = next
	}
	return nil
}

// removeFromDays drops id from the existing records of each date. Dates
// without a record, or whose record does not list id, are not written.
func (s *Store) removeFromDays(ctx context.Context, id string, dates []model.Date) error {
	written := 0
	for _, d := range dates {
		rec, ok := s.days[d]
		if !ok || !rec.HasEvent(id) {
			continue
		}
		next := rec.WithoutEvent(id)

		if err := s.repo.SaveDayData(ctx, next); err != nil {
			return s.spanFailure("remove", id, d, written, err)
		}
		s.days[d] = next
		written++
	}
	return nil
}

func (s *Store) spanFailure(op, id string, d model.Date, written int, err error) error {
	s.logger.Warn("partial span write", "op", op, "id", id, "date", d, "written", written, "err", err)
	return &SpanWriteError{EventID: id, Op: op, Date: d, Written: written, Err: err}
}

// SetDayBackground sets or, with an empty color, clears the date's
// background override.
func (s *Store) SetDayBackground(ctx context.Context, date model.Date, color string) error {
	return s.updateDay(ctx, date, func(r *model.DayRecord) { r.BackgroundColor = model.Optional(color) })
}

// SetDayNotes sets or, with empty notes, clears the date's notes.
func (s *Store) SetDayNotes(ctx context.Context, date model.Date, notes string) error {
	return s.updateDay(ctx, date, func(r *model.DayRecord) { r.Notes = model.Optional(notes) })
}

// SetDayCategory sets or, with an empty id, clears the date's category.
func (s *Store) SetDayCategory(ctx context.Context, date model.Date, categoryID string) error {
	return s.updateDay(ctx, date, func(r *model.DayRecord) { r.CategoryID = model.Optional(categoryID) })
}

func (s *Store) updateDay(ctx context.Context, date model.Date, mutate func(*model.DayRecord)) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	rec, ok := s.days[date]
	if !ok {
		rec = model.NewDayRecord(date)
	}
	next := rec.Clone()
	mutate(&next)

	if err := s.repo.SaveDayData(ctx, next); err != nil {
		return fmt.Errorf("save day %s: %w", date, err)
	}
	s.days[date] = next
	return nil
}

// Event returns the event with the given id.
func (s *Store) Event(id string) (model.Event, bool) {
	e, ok := s.events[id]
	return e, ok
}

// Events returns a copy of every event keyed by id.
func (s *Store) Events() map[string]model.Event {
	out := make(map[string]model.Event, len(s.events))
	for id, e := range s.events {
		out[id] = e
	}
	return out
}

// Day returns the record for date, if one has ever been created.
func (s *Store) Day(date model.Date) (model.DayRecord, bool) {
	rec, ok := s.days[date]
	if !ok {
		return model.DayRecord{}, false
	}
	return rec.Clone(), true
}

// Days returns a copy of every day record keyed by date.
func (s *Store) Days() map[model.Date]model.DayRecord {
	out := make(map[model.Date]model.DayRecord, len(s.days))
	for d, rec := range s.days {
		out[d] = rec.Clone()
	}
	return out
}

// EventsForDate resolves the date's event ids in insertion order. Ids with
// no live event are skipped.
func (s *Store) EventsForDate(date model.Date) []model.Event {
	rec, ok := s.days[date]
	if !ok {
		return []model.Event{}
	}
	out := make([]model.Event, 0, len(rec.EventIDs))
	for _, id := range rec.EventIDs {
		if e, ok := s.events[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SortedEvents returns every event ordered by start date, end date, then id.
func (s *Store) SortedEvents() []model.Event {
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	slices.SortFunc(out, compareEvents)
	return out
}

func compareEvents(a, b model.Event) int {
	if c := a.StartDate.Compare(b.StartDate); c != 0 {
		return c
	}
	if c := a.LastDate().Compare(b.LastDate()); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// Export serializes the repository's full state.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	data, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// Import replaces the repository's collections with those in data and
// reloads the working set.
func (s *Store) Import(ctx context.Context, data []byte) error {
	if err := s.repo.ImportAll(ctx, data); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return s.Load(ctx)
}

// Wipe deletes every event, day record and category.
func (s *Store) Wipe(ctx context.Context) error {
	empty, err := storage.EncodeSnapshot(model.Snapshot{})
	if err != nil {
		return err
	}
	return s.Import(ctx, empty)
}

// Stats summarizes the working set.
type Stats struct {
	Events         int `json:"events"`
	MultiDayEvents int `json:"multi_day_events"`
	Days           int `json:"days"`
	Categories     int `json:"categories"`
	Issues         int `json:"issues"`
}

// Stats counts records and index inconsistencies.
func (s *Store) Stats() Stats {
	st := Stats{
		Events:     len(s.events),
		Days:       len(s.days),
		Categories: len(s.categories),
		Issues:     len(s.Check()),
	}
	for _, e := range s.events {
		if e.IsMultiDay() {
			st.MultiDayEvents++
		}
	}
	return st
}
