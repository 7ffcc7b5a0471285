// Package layout projects multi-day events onto the year grid: one
// horizontal bar segment per (event, month) pair, stacked into lanes so
// overlapping bars in a month row never collide. Everything here is pure
// and recomputed from current state on each call.
package layout

import (
	"slices"
	"strings"
	"time"

	"github.com/runnerr0/montycal/internal/model"
)

// DefaultColor is used when neither the event nor its category has a colour.
const DefaultColor = "#3b82f6"

// Options tunes segment extraction.
type Options struct {
	DefaultColor string
}

func (o Options) defaultColor() string {
	if o.DefaultColor == "" {
		return DefaultColor
	}
	return o.DefaultColor
}

// Months returns the twelve month rows of year.
func Months(year int) []model.MonthInfo {
	months := make([]model.MonthInfo, 12)
	for i := range months {
		first := time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		months[i] = model.MonthInfo{
			Year:           year,
			Month:          i,
			DaysInMonth:    model.DaysInMonth(year, time.Month(i+1)),
			StartDayOfWeek: first.Weekday(),
		}
	}
	return months
}

// Segments extracts the multi-day segments of year and assigns lanes.
func Segments(year int, events map[string]model.Event, categories []model.Category, opts Options) []model.Segment {
	segs := ExtractSegments(year, events, categories, opts)
	AssignLanes(segs)
	return segs
}

// SegmentsForYears runs Segments for every visible year.
func SegmentsForYears(years []int, events map[string]model.Event, categories []model.Category, opts Options) map[int][]model.Segment {
	out := make(map[int][]model.Segment, len(years))
	for _, y := range years {
		if _, done := out[y]; done {
			continue
		}
		out[y] = Segments(y, events, categories, opts)
	}
	return out
}

// ExtractSegments clips every multi-day event to the months of year that it
// touches. Single-day events produce no segments. Lanes are left at zero.
// Output is ordered by event (start date, end date, id), then month.
func ExtractSegments(year int, events map[string]model.Event, categories []model.Category, opts Options) []model.Segment {
	multiDay := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.IsMultiDay() && !e.EndDate.Before(e.StartDate) {
			multiDay = append(multiDay, e)
		}
	}
	slices.SortFunc(multiDay, func(a, b model.Event) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		if c := a.EndDate.Compare(*b.EndDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	months := Months(year)
	var segs []model.Segment

	for _, e := range multiDay {
		start, end := e.StartDate, *e.EndDate
		color := resolveColor(e, categories, opts.defaultColor())

		for _, m := range months {
			first, last := m.First(), m.Last()
			if start.After(last) || end.Before(first) {
				continue
			}

			seg := model.Segment{
				EventID:    e.ID,
				Year:       year,
				MonthIndex: m.Month,
				StartCol:   1,
				EndCol:     m.DaysInMonth,
				IsStart:    !start.Before(first),
				IsEnd:      !end.After(last),
				Color:      color,
				Title:      e.Title,
			}
			if seg.IsStart {
				seg.StartCol = start.Day
			}
			if seg.IsEnd {
				seg.EndCol = end.Day
			}
			segs = append(segs, seg)
		}
	}

	return segs
}

// resolveColor picks the event's own colour, then its category's, then the
// fallback. Dangling category ids fall through to the fallback.
func resolveColor(e model.Event, categories []model.Category, fallback string) string {
	if e.Color != nil && *e.Color != "" {
		return *e.Color
	}
	if e.CategoryID != nil {
		if c, ok := model.FindCategory(categories, *e.CategoryID); ok && c.Color != "" {
			return c.Color
		}
	}
	return fallback
}
