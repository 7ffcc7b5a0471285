package calendar

import (
	"context"
	"fmt"
	"slices"

	"github.com/runnerr0/montycal/internal/model"
)

// IssueKind classifies a day-index inconsistency.
type IssueKind string

const (
	// IssueDangling: a day lists an id with no live event.
	IssueDangling IssueKind = "dangling"
	// IssueMissing: a date inside an event's span does not list it.
	IssueMissing IssueKind = "missing"
	// IssueDuplicate: a day lists the same id more than once.
	IssueDuplicate IssueKind = "duplicate"
	// IssueStray: a day lists a live event whose span does not cover it.
	IssueStray IssueKind = "stray"
)

// Issue is one violation of the event/day-index invariant.
type Issue struct {
	Kind    IssueKind  `json:"kind"`
	Date    model.Date `json:"date"`
	EventID string     `json:"event_id"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s %s", i.Date, i.Kind, i.EventID)
}

// Check compares the day index against event spans. It never writes.
func (s *Store) Check() []Issue {
	var issues []Issue

	for _, date := range s.sortedDates() {
		seen := map[string]bool{}
		for _, id := range s.days[date].EventIDs {
			if seen[id] {
				issues = append(issues, Issue{Kind: IssueDuplicate, Date: date, EventID: id})
				continue
			}
			seen[id] = true

			e, ok := s.events[id]
			switch {
			case !ok:
				issues = append(issues, Issue{Kind: IssueDangling, Date: date, EventID: id})
			case !e.Covers(date):
				issues = append(issues, Issue{Kind: IssueStray, Date: date, EventID: id})
			}
		}
	}

	for _, e := range s.SortedEvents() {
		for _, date := range spanOf(e) {
			if !s.days[date].HasEvent(e.ID) {
				issues = append(issues, Issue{Kind: IssueMissing, Date: date, EventID: e.ID})
			}
		}
	}

	slices.SortStableFunc(issues, func(a, b Issue) int {
		return a.Date.Compare(b.Date)
	})
	return issues
}

// Repair rewrites every day record that violates the invariant so that each
// date lists exactly the live events covering it, once each, keeping the
// existing order for ids that stay. It returns the number of records written.
func (s *Store) Repair(ctx context.Context) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}

	want := make(map[model.Date]model.DayRecord, len(s.days))
	for date, rec := range s.days {
		next := rec.Clone()
		next.EventIDs = next.EventIDs[:0]
		for _, id := range rec.EventIDs {
			e, ok := s.events[id]
			if ok && e.Covers(date) && !slices.Contains(next.EventIDs, id) {
				next.EventIDs = append(next.EventIDs, id)
			}
		}
		want[date] = next
	}
	for _, e := range s.SortedEvents() {
		for _, date := range spanOf(e) {
			rec, ok := want[date]
			if !ok {
				rec = model.NewDayRecord(date)
			}
			want[date] = rec.WithEvent(e.ID)
		}
	}

	dates := make([]model.Date, 0, len(want))
	for d := range want {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, model.Date.Compare)

	written := 0
	for _, date := range dates {
		next := want[date]
		if cur, ok := s.days[date]; ok && slices.Equal(cur.EventIDs, next.EventIDs) {
			continue
		}
		if err := s.repo.SaveDayData(ctx, next); err != nil {
			return written, fmt.Errorf("repair day %s: %w", date, err)
		}
		s.days[date] = next
		written++
	}

	if written > 0 {
		s.logger.Info("day index repaired", "records", written)
	}
	return written, nil
}

func (s *Store) sortedDates() []model.Date {
	dates := make([]model.Date, 0, len(s.days))
	for d := range s.days {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, model.Date.Compare)
	return dates
}
