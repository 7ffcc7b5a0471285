package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Add            *AddCommand
	Edit           *EditCommand
	Remove         *RemoveCommand
	Day            *DayCommand
	SetDay         *SetDayCommand
	Layout         *LayoutCommand
	Categories     *CategoriesCommand
	CategoryAdd    *CategoryAddCommand
	CategoryEdit   *CategoryEditCommand
	CategoryRemove *CategoryRemoveCommand
	Export         *ExportCommand
	Import         *ImportCommand
	ICS            *ICSCommand
	Check          *CheckCommand
	Status         *StatusCommand
	Purge          *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "montycal"
	parser.LongDescription = "Personal year-at-a-glance calendar: events, day notes, categories and multi-day bar layout."

	g := &globals
	cmds := &commands{
		Add:            &AddCommand{globals: g, version: version},
		Edit:           &EditCommand{globals: g, version: version},
		Remove:         &RemoveCommand{globals: g, version: version},
		Day:            &DayCommand{globals: g, version: version},
		SetDay:         &SetDayCommand{globals: g, version: version},
		Layout:         &LayoutCommand{globals: g, version: version},
		Categories:     &CategoriesCommand{globals: g, version: version},
		CategoryAdd:    &CategoryAddCommand{globals: g, version: version},
		CategoryEdit:   &CategoryEditCommand{globals: g, version: version},
		CategoryRemove: &CategoryRemoveCommand{globals: g, version: version},
		Export:         &ExportCommand{globals: g, version: version},
		Import:         &ImportCommand{globals: g, version: version},
		ICS:            &ICSCommand{globals: g, version: version},
		Check:          &CheckCommand{globals: g, version: version},
		Status:         &StatusCommand{globals: g, version: version},
		Purge:          &PurgeCommand{globals: g, version: version},
	}

	parser.AddCommand("add", "Add an event", "Add a single-day or multi-day event.", cmds.Add)
	parser.AddCommand("edit", "Edit an event", "Change fields of an existing event. An empty value clears an optional field.", cmds.Edit)
	parser.AddCommand("rm", "Delete events", "Delete one or more events by id.", cmds.Remove)
	parser.AddCommand("day", "Show a date", "Show the background, notes, category and events of one date.", cmds.Day)
	parser.AddCommand("set-day", "Edit a date", "Set or clear the background colour, notes or category of one date.", cmds.SetDay)
	parser.AddCommand("layout", "Show multi-day bars", "Print the month segments and lanes of multi-day events.", cmds.Layout)
	parser.AddCommand("categories", "List categories", "List categories in display order.", cmds.Categories)
	parser.AddCommand("category-add", "Add a category", "Append a category to the list.", cmds.CategoryAdd)
	parser.AddCommand("category-edit", "Edit a category", "Rename, recolour or reorder a category.", cmds.CategoryEdit)
	parser.AddCommand("category-rm", "Delete a category", "Delete a category. Events and dates keep the dangling reference.", cmds.CategoryRemove)
	parser.AddCommand("export", "Export a JSON snapshot", "Write events, days and categories as one JSON document.", cmds.Export)
	parser.AddCommand("import", "Import a JSON snapshot", "Replace stored collections with those present in a JSON snapshot.", cmds.Import)
	parser.AddCommand("ics", "Export iCalendar", "Write all events as an iCalendar (.ics) stream.", cmds.ICS)
	parser.AddCommand("check", "Verify the day index", "Compare day records with event spans, optionally repairing them.", cmds.Check)
	parser.AddCommand("status", "Show storage statistics", "Show backend, database and record counts.", cmds.Status)
	parser.AddCommand("purge", "Delete ALL calendar data", "Delete ALL calendar data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("montycal %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}

	return nil
}
