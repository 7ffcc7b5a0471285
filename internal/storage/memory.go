package storage

import (
	"context"
	"sync"

	"github.com/runnerr0/montycal/internal/model"
)

// MemoryStore is a volatile Repository. It is the backend for throwaway
// sessions and the default fixture in tests.
type MemoryStore struct {
	mu         sync.Mutex
	events     map[string]model.Event
	days       map[model.Date]model.DayRecord
	categories []model.Category
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:     make(map[string]model.Event),
		days:       make(map[model.Date]model.DayRecord),
		categories: []model.Category{},
	}
}

func (m *MemoryStore) GetEvents(ctx context.Context) (map[string]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]model.Event, len(m.events))
	for id, e := range m.events {
		out[id] = e
	}
	return out, nil
}

func (m *MemoryStore) SaveEvent(ctx context.Context, event model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[event.ID] = event
	return nil
}

func (m *MemoryStore) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.events, id)
	return nil
}

func (m *MemoryStore) GetDayData(ctx context.Context) (map[model.Date]model.DayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[model.Date]model.DayRecord, len(m.days))
	for date, d := range m.days {
		out[date] = d.Clone()
	}
	return out, nil
}

func (m *MemoryStore) SaveDayData(ctx context.Context, day model.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.days[day.DateKey] = day.Clone()
	return nil
}

func (m *MemoryStore) DeleteDayData(ctx context.Context, date model.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.days, date)
	return nil
}

func (m *MemoryStore) GetCategories(ctx context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *MemoryStore) SaveCategories(ctx context.Context, categories []model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = make([]model.Category, len(categories))
	copy(m.categories, categories)
	return nil
}

func (m *MemoryStore) ExportAll(ctx context.Context) ([]byte, error) {
	return exportFrom(ctx, m)
}

func (m *MemoryStore) ImportAll(ctx context.Context, data []byte) error {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Events != nil {
		m.events = snap.Events
	}
	if snap.Days != nil {
		m.days = snap.Days
	}
	if snap.Categories != nil {
		m.categories = snap.Categories
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
