package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/montycal/internal/config"
	"github.com/runnerr0/montycal/internal/model"
)

func TestLayoutCommand_JSON(t *testing.T) {
	cal := testCalendar(t)
	trip := mustAdd(t, cal, "Ski trip", "2024-01-28", "2024-02-03")
	mustAdd(t, cal, "Overlap", "2024-01-30", "2024-01-31")
	mustAdd(t, cal, "Single", "2024-01-29", "")

	cmd := &LayoutCommand{Years: []int{2024}, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(cal)) })

	var out map[string][]monthJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	months := out["2024"]
	require.Len(t, months, 2, "only months with segments are listed")

	jan := months[0]
	assert.Equal(t, 0, jan.Month)
	assert.Equal(t, 2, jan.Lanes)
	require.Len(t, jan.Segments, 2)
	assert.Equal(t, trip.ID, jan.Segments[0].EventID)
	assert.Equal(t, 28, jan.Segments[0].StartCol)
	assert.Equal(t, 31, jan.Segments[0].EndCol)
	assert.Equal(t, 1, jan.Segments[1].Lane)

	feb := months[1]
	assert.Equal(t, 1, feb.Month)
	require.Len(t, feb.Segments, 1)
	assert.False(t, feb.Segments[0].IsStart)
	assert.True(t, feb.Segments[0].IsEnd)
}

func TestLayoutCommand_ColorsFromConfigAndCategory(t *testing.T) {
	cal := testCalendar(t)
	cat, err := cal.AddCategory(context.Background(), "Travel", "#f59e0b")
	require.NoError(t, err)

	withCat := model.Event{Title: "A", StartDate: model.MustParseDate("2024-05-01"), CategoryID: &cat.ID}
	end := model.MustParseDate("2024-05-03")
	withCat.EndDate = &end
	_, err = cal.AddEvent(context.Background(), withCat)
	require.NoError(t, err)
	mustAdd(t, cal, "B", "2024-05-10", "2024-05-11")

	cfg := config.DefaultConfig()
	cfg.Layout.DefaultColor = "#123456"
	cmd := &LayoutCommand{Years: []int{2024}, Month: 5, cfg: cfg, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(cal)) })

	var out map[string][]monthJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.Len(t, out["2024"], 1)
	segs := out["2024"][0].Segments
	require.Len(t, segs, 2)
	assert.Equal(t, "#f59e0b", segs[0].Color)
	assert.Equal(t, "#123456", segs[1].Color)
}

func TestLayoutCommand_Text(t *testing.T) {
	cal := testCalendar(t)
	mustAdd(t, cal, "Trip", "2024-02-27", "2024-03-02")

	cmd := &LayoutCommand{Years: []int{2024, 2025}, globals: &GlobalFlags{}}
	output := captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(cal)) })

	assert.Contains(t, output, "Feb  1 lane(s)")
	assert.Contains(t, output, "..........................(==")
	assert.Contains(t, output, "Mar  1 lane(s)")
	assert.Contains(t, output, "=)")
	assert.Contains(t, output, "2025\n  No multi-day events.")
}

func TestLayoutCommand_BadMonth(t *testing.T) {
	cmd := &LayoutCommand{Month: 13, globals: &GlobalFlags{}}
	assert.Error(t, cmd.executeWithStore(testCalendar(t)))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "..(=)", bar(model.Segment{StartCol: 3, EndCol: 5, IsStart: true, IsEnd: true}, 5))
	assert.Equal(t, "===..", bar(model.Segment{StartCol: 1, EndCol: 3}, 5))
}
