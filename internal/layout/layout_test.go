package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/montycal/internal/model"
)

func multiDay(id, start, end string) model.Event {
	e := model.Event{ID: id, Title: id, StartDate: model.MustParseDate(start)}
	if end != "" {
		last := model.MustParseDate(end)
		e.EndDate = &last
	}
	return e
}

func eventMap(events ...model.Event) map[string]model.Event {
	m := make(map[string]model.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return m
}

func strp(s string) *string { return &s }

func TestMonths(t *testing.T) {
	months := Months(2024)
	require.Len(t, months, 12)

	assert.Equal(t, 0, months[0].Month)
	assert.Equal(t, 31, months[0].DaysInMonth)
	assert.Equal(t, time.Monday, months[0].StartDayOfWeek)
	assert.Equal(t, 29, months[1].DaysInMonth, "2024 is a leap year")
	assert.Equal(t, 11, months[11].Month)
	assert.Equal(t, "2024-12-31", months[11].Last().String())
}

func TestExtractSegments_ClipsAcrossMonths(t *testing.T) {
	events := eventMap(multiDay("trip", "2024-01-28", "2024-02-03"))

	segs := ExtractSegments(2024, events, nil, Options{})
	require.Len(t, segs, 2)

	assert.Equal(t, model.Segment{
		EventID: "trip", Year: 2024, MonthIndex: 0,
		StartCol: 28, EndCol: 31, IsStart: true, IsEnd: false,
		Color: DefaultColor, Title: "trip",
	}, segs[0])
	assert.Equal(t, model.Segment{
		EventID: "trip", Year: 2024, MonthIndex: 1,
		StartCol: 1, EndCol: 3, IsStart: false, IsEnd: true,
		Color: DefaultColor, Title: "trip",
	}, segs[1])
}

func TestExtractSegments_SpansWholeMiddleMonth(t *testing.T) {
	events := eventMap(multiDay("long", "2024-01-15", "2024-03-02"))

	segs := ExtractSegments(2024, events, nil, Options{})
	require.Len(t, segs, 3)

	feb := segs[1]
	assert.Equal(t, 1, feb.MonthIndex)
	assert.Equal(t, 1, feb.StartCol)
	assert.Equal(t, 29, feb.EndCol)
	assert.False(t, feb.IsStart)
	assert.False(t, feb.IsEnd)
}

func TestExtractSegments_SkipsSingleDay(t *testing.T) {
	same := multiDay("same", "2024-05-05", "2024-05-05")
	events := eventMap(
		multiDay("single", "2024-05-05", ""),
		same,
	)

	assert.Empty(t, ExtractSegments(2024, events, nil, Options{}))
}

func TestExtractSegments_OnlyRequestedYear(t *testing.T) {
	events := eventMap(multiDay("nye", "2024-12-30", "2025-01-02"))

	segs2024 := ExtractSegments(2024, events, nil, Options{})
	require.Len(t, segs2024, 1)
	assert.Equal(t, 11, segs2024[0].MonthIndex)
	assert.Equal(t, 30, segs2024[0].StartCol)
	assert.Equal(t, 31, segs2024[0].EndCol)
	assert.True(t, segs2024[0].IsStart)
	assert.False(t, segs2024[0].IsEnd)

	segs2025 := ExtractSegments(2025, events, nil, Options{})
	require.Len(t, segs2025, 1)
	assert.Equal(t, 0, segs2025[0].MonthIndex)
	assert.Equal(t, 1, segs2025[0].StartCol)
	assert.Equal(t, 2, segs2025[0].EndCol)
	assert.False(t, segs2025[0].IsStart)
	assert.True(t, segs2025[0].IsEnd)

	assert.Empty(t, ExtractSegments(2023, events, nil, Options{}))
}

func TestExtractSegments_ColorResolution(t *testing.T) {
	cats := []model.Category{{ID: "work", Name: "Work", Color: "#6366f1"}}

	own := multiDay("own", "2024-04-01", "2024-04-02")
	own.Color = strp("#000000")
	own.CategoryID = strp("work")

	byCategory := multiDay("cat", "2024-04-03", "2024-04-04")
	byCategory.CategoryID = strp("work")

	dangling := multiDay("dangling", "2024-04-05", "2024-04-06")
	dangling.CategoryID = strp("gone")

	plain := multiDay("plain", "2024-04-07", "2024-04-08")

	segs := ExtractSegments(2024, eventMap(own, byCategory, dangling, plain), cats, Options{})
	require.Len(t, segs, 4)

	colors := map[string]string{}
	for _, s := range segs {
		colors[s.EventID] = s.Color
	}
	assert.Equal(t, "#000000", colors["own"])
	assert.Equal(t, "#6366f1", colors["cat"])
	assert.Equal(t, DefaultColor, colors["dangling"])
	assert.Equal(t, DefaultColor, colors["plain"])

	custom := ExtractSegments(2024, eventMap(plain), nil, Options{DefaultColor: "#abcdef"})
	require.Len(t, custom, 1)
	assert.Equal(t, "#abcdef", custom[0].Color)
}

func TestExtractSegments_Deterministic(t *testing.T) {
	events := eventMap(
		multiDay("c", "2024-03-01", "2024-03-04"),
		multiDay("a", "2024-03-01", "2024-03-04"),
		multiDay("b", "2024-02-27", "2024-03-02"),
	)

	first := Segments(2024, events, nil, Options{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Segments(2024, events, nil, Options{}))
	}

	ids := make([]string, len(first))
	for i, s := range first {
		ids[i] = s.EventID
	}
	assert.Equal(t, []string{"b", "b", "a", "c"}, ids)
}

func TestAssignLanes_Greedy(t *testing.T) {
	segs := []model.Segment{
		{EventID: "x", Year: 2024, MonthIndex: 0, StartCol: 1, EndCol: 5},
		{EventID: "y", Year: 2024, MonthIndex: 0, StartCol: 3, EndCol: 8},
		{EventID: "z", Year: 2024, MonthIndex: 0, StartCol: 6, EndCol: 10},
	}

	AssignLanes(segs)

	assert.Equal(t, 0, segs[0].Lane)
	assert.Equal(t, 1, segs[1].Lane)
	assert.Equal(t, 0, segs[2].Lane)
	assert.Equal(t, 2, LaneCount(segs, 2024, 0))
}

func TestAssignLanes_TouchingBarsShareNoLane(t *testing.T) {
	segs := []model.Segment{
		{EventID: "x", Year: 2024, MonthIndex: 0, StartCol: 1, EndCol: 5},
		{EventID: "y", Year: 2024, MonthIndex: 0, StartCol: 5, EndCol: 7},
	}

	AssignLanes(segs)

	assert.Equal(t, 0, segs[0].Lane)
	assert.Equal(t, 1, segs[1].Lane)
}

func TestAssignLanes_OneDayFragment(t *testing.T) {
	segs := []model.Segment{
		{EventID: "x", Year: 2024, MonthIndex: 0, StartCol: 31, EndCol: 31},
		{EventID: "y", Year: 2024, MonthIndex: 0, StartCol: 30, EndCol: 31},
	}

	AssignLanes(segs)

	assert.Equal(t, 1, segs[0].Lane)
	assert.Equal(t, 0, segs[1].Lane)
}

func TestAssignLanes_MonthsIndependent(t *testing.T) {
	segs := []model.Segment{
		{EventID: "x", Year: 2024, MonthIndex: 0, StartCol: 1, EndCol: 31},
		{EventID: "y", Year: 2024, MonthIndex: 0, StartCol: 2, EndCol: 3},
		{EventID: "z", Year: 2024, MonthIndex: 1, StartCol: 2, EndCol: 3},
		{EventID: "w", Year: 2025, MonthIndex: 0, StartCol: 2, EndCol: 3},
	}

	AssignLanes(segs)

	assert.Equal(t, []int{0, 1, 0, 0}, []int{segs[0].Lane, segs[1].Lane, segs[2].Lane, segs[3].Lane})
	assert.Equal(t, 2, LaneCount(segs, 2024, 0))
	assert.Equal(t, 1, LaneCount(segs, 2024, 1))
	assert.Equal(t, 0, LaneCount(segs, 2024, 5))
}

func TestAssignLanes_NoOverlapWithinLane(t *testing.T) {
	events := eventMap(
		multiDay("a", "2024-06-01", "2024-06-10"),
		multiDay("b", "2024-06-05", "2024-06-07"),
		multiDay("c", "2024-06-08", "2024-06-20"),
		multiDay("d", "2024-06-11", "2024-06-12"),
		multiDay("e", "2024-05-30", "2024-06-02"),
		multiDay("f", "2024-06-21", "2024-07-03"),
	)

	segs := Segments(2024, events, nil, Options{})
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if segs[i].Lane == segs[j].Lane {
				assert.False(t, segs[i].Overlaps(segs[j]), "%s and %s share lane %d", segs[i].EventID, segs[j].EventID, segs[i].Lane)
			}
		}
	}
}

func TestForMonth(t *testing.T) {
	events := eventMap(
		multiDay("a", "2024-06-01", "2024-06-10"),
		multiDay("b", "2024-06-05", "2024-06-07"),
		multiDay("c", "2024-06-12", "2024-06-14"),
	)

	segs := Segments(2024, events, nil, Options{})
	june := ForMonth(segs, 2024, 5)
	require.Len(t, june, 3)
	assert.Equal(t, "a", june[0].EventID)
	assert.Equal(t, "c", june[1].EventID)
	assert.Equal(t, "b", june[2].EventID)
	assert.Empty(t, ForMonth(segs, 2024, 6))
}

func TestSegmentsForYears(t *testing.T) {
	events := eventMap(multiDay("nye", "2024-12-30", "2025-01-02"))

	byYear := SegmentsForYears([]int{2024, 2025, 2024}, events, nil, Options{})
	require.Len(t, byYear, 2)
	assert.Len(t, byYear[2024], 1)
	assert.Len(t, byYear[2025], 1)
}
