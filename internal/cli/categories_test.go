package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/montycal/internal/model"
)

func TestCategoryCommands_Lifecycle(t *testing.T) {
	cal := testCalendar(t)

	add := &CategoryAddCommand{Name: "Gym", Color: "#000000", globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() { require.NoError(t, add.executeWithStore(cal)) })

	var created model.Category
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "Gym", created.Name)
	assert.Equal(t, 0, created.SortOrder)

	second := &CategoryAddCommand{Name: "Books", Color: "#ffffff", globals: &GlobalFlags{}}
	captureOutput(t, func() { require.NoError(t, second.executeWithStore(cal)) })

	edit := &CategoryEditCommand{Name: strp("Climbing"), Order: intp(5), globals: &GlobalFlags{}}
	edit.Args.ID = created.ID
	output = captureOutput(t, func() { require.NoError(t, edit.executeWithStore(cal)) })
	assert.Contains(t, output, "Climbing")

	list := &CategoriesCommand{globals: &GlobalFlags{JSON: true}}
	output = captureOutput(t, func() { require.NoError(t, list.executeWithStore(cal)) })
	var cats []model.Category
	require.NoError(t, json.Unmarshal([]byte(output), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "Books", cats[0].Name)
	assert.Equal(t, "Climbing", cats[1].Name)

	rm := &CategoryRemoveCommand{globals: &GlobalFlags{}}
	rm.Args.ID = created.ID
	output = captureOutput(t, func() { require.NoError(t, rm.executeWithStore(cal)) })
	assert.Contains(t, output, "Deleted category")
	assert.Len(t, cal.Categories(), 1)
}

func TestCategoryCommands_Rejections(t *testing.T) {
	cal := testCalendar(t)

	assert.Error(t, (&CategoryAddCommand{Name: " ", Color: "#000", globals: &GlobalFlags{}}).executeWithStore(cal))
	assert.Error(t, (&CategoryAddCommand{Name: "X", globals: &GlobalFlags{}}).executeWithStore(cal))

	edit := &CategoryEditCommand{Name: strp("X"), globals: &GlobalFlags{}}
	edit.Args.ID = "missing"
	assert.ErrorContains(t, edit.executeWithStore(cal), "not found")

	rm := &CategoryRemoveCommand{globals: &GlobalFlags{}}
	rm.Args.ID = "missing"
	assert.ErrorContains(t, rm.executeWithStore(cal), "not found")

	assert.Empty(t, cal.Categories())
}

func TestCategoriesCommand_Empty(t *testing.T) {
	cmd := &CategoriesCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(testCalendar(t))) })
	assert.Contains(t, output, "No categories.")
}

func TestDeletedCategoryShownAsDangling(t *testing.T) {
	cal := testCalendar(t)
	add := &CategoryAddCommand{Name: "Work", Color: "#6366f1", globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() { require.NoError(t, add.executeWithStore(cal)) })
	var cat model.Category
	require.NoError(t, json.Unmarshal([]byte(output), &cat))

	event := &AddCommand{Title: "Sprint", Start: "2024-09-02", Category: cat.ID, globals: &GlobalFlags{}}
	captureOutput(t, func() { require.NoError(t, event.executeWithStore(cal)) })

	rm := &CategoryRemoveCommand{globals: &GlobalFlags{}}
	rm.Args.ID = cat.ID
	captureOutput(t, func() { require.NoError(t, rm.executeWithStore(cal)) })

	set := &SetDayCommand{Category: strp(cat.ID), globals: &GlobalFlags{}}
	set.Args.Date = "2024-09-02"
	output = captureOutput(t, func() { require.NoError(t, set.executeWithStore(cal)) })
	assert.Contains(t, output, cat.ID+" (deleted)")
}
