package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/runnerr0/montycal/internal/model"
)

// EncodeSnapshot renders a snapshot as indented JSON. Nil collections are
// written as empty ones so a full export always carries all three keys.
func EncodeSnapshot(snap model.Snapshot) ([]byte, error) {
	if snap.Events == nil {
		snap.Events = map[string]model.Event{}
	}
	if snap.Days == nil {
		snap.Days = map[model.Date]model.DayRecord{}
	}
	if snap.Categories == nil {
		snap.Categories = []model.Category{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a serialized snapshot. Map keys are authoritative:
// a record whose embedded id or date disagrees with its key is rekeyed.
func DecodeSnapshot(data []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	for id, e := range snap.Events {
		if e.ID != id {
			e.ID = id
			snap.Events[id] = e
		}
	}
	for date, d := range snap.Days {
		if d.DateKey != date || d.EventIDs == nil {
			d.DateKey = date
			if d.EventIDs == nil {
				d.EventIDs = []string{}
			}
			snap.Days[date] = d
		}
	}

	return snap, nil
}

// exportFrom reads every collection through repo and encodes them.
func exportFrom(ctx context.Context, repo Repository) ([]byte, error) {
	events, err := repo.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	days, err := repo.GetDayData(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return EncodeSnapshot(model.Snapshot{Events: events, Days: days, Categories: categories})
}
