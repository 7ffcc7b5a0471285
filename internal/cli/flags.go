package cli

import (
	"io"

	"github.com/runnerr0/montycal/internal/config"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AddCommand creates an event.
type AddCommand struct {
	Title       string `long:"title" description:"Event title (required)"`
	Start       string `long:"start" description:"Start date YYYY-MM-DD (required)"`
	End         string `long:"end" description:"Last date YYYY-MM-DD for multi-day events"`
	StartTime   string `long:"start-time" description:"Start time HH:MM"`
	EndTime     string `long:"end-time" description:"End time HH:MM"`
	Description string `long:"description" description:"Free-text description"`
	Category    string `long:"category" description:"Category id"`
	Color       string `long:"color" description:"Colour override, e.g. #ff0000"`

	globals *GlobalFlags
	version string
}

// EditCommand patches an existing event. Passing an empty value clears an
// optional field.
type EditCommand struct {
	Title       *string `long:"title" description:"New title"`
	Start       *string `long:"start" description:"New start date YYYY-MM-DD"`
	End         *string `long:"end" description:"New last date YYYY-MM-DD"`
	ClearEnd    bool    `long:"clear-end" description:"Make the event single-day"`
	StartTime   *string `long:"start-time" description:"Start time HH:MM (empty clears)"`
	EndTime     *string `long:"end-time" description:"End time HH:MM (empty clears)"`
	Description *string `long:"description" description:"Description (empty clears)"`
	Category    *string `long:"category" description:"Category id (empty clears)"`
	Color       *string `long:"color" description:"Colour override (empty clears)"`

	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// RemoveCommand deletes events.
type RemoveCommand struct {
	Args struct {
		IDs []string `positional-arg-name:"id" required:"1"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// DayCommand shows one date's record and events.
type DayCommand struct {
	Args struct {
		Date string `positional-arg-name:"date" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// SetDayCommand edits one date's background, notes, or category.
type SetDayCommand struct {
	Background *string `long:"background" description:"Background colour (empty clears)"`
	Notes      *string `long:"notes" description:"Notes (empty clears)"`
	Category   *string `long:"category" description:"Category id (empty clears)"`

	Args struct {
		Date string `positional-arg-name:"date" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// LayoutCommand prints multi-day bar segments with their lanes.
type LayoutCommand struct {
	Years []int `long:"year" description:"Year to lay out (repeatable, default current year)"`
	Month int   `long:"month" description:"Only this month (1-12)"`

	globals *GlobalFlags
	version string
	cfg     *config.Config
}

// CategoriesCommand lists categories.
type CategoriesCommand struct {
	globals *GlobalFlags
	version string
}

// CategoryAddCommand appends a category.
type CategoryAddCommand struct {
	Name  string `long:"name" description:"Category name (required)"`
	Color string `long:"color" description:"Category colour (required)"`

	globals *GlobalFlags
	version string
}

// CategoryEditCommand patches a category.
type CategoryEditCommand struct {
	Name  *string `long:"name" description:"New name"`
	Color *string `long:"color" description:"New colour"`
	Order *int    `long:"order" description:"New sort order"`

	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// CategoryRemoveCommand deletes a category. References to it are kept.
type CategoryRemoveCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// ExportCommand writes the full JSON snapshot.
type ExportCommand struct {
	Output string `long:"output" short:"o" description:"Write to file instead of stdout"`

	globals *GlobalFlags
	version string
}

// ImportCommand replaces stored collections from a JSON snapshot.
type ImportCommand struct {
	Args struct {
		File string `positional-arg-name:"file" required:"yes" description:"Snapshot file, or - for stdin"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // nil means os.Stdin
}

// ICSCommand exports events as iCalendar.
type ICSCommand struct {
	Output string `long:"output" short:"o" description:"Write to file instead of stdout"`

	globals *GlobalFlags
	version string
	cfg     *config.Config
}

// CheckCommand verifies the day index against event spans.
type CheckCommand struct {
	Repair bool `long:"repair" description:"Rewrite inconsistent day records"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows storage and record counts.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	backend string
	dbPath  string
}

// PurgeCommand deletes ALL calendar data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // nil means os.Stdin
}
