package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/model"
)

// dayJSON is the JSON output structure for the day command.
type dayJSON struct {
	Date   string          `json:"date"`
	Record model.DayRecord `json:"record"`
	Events []model.Event   `json:"events"`
}

// Execute implements the go-flags Commander interface for DayCommand.
func (c *DayCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore prints the date's record against a provided store (used by tests).
func (c *DayCommand) executeWithStore(cal *calendar.Store) error {
	date, err := parseDateFlag("date", c.Args.Date)
	if err != nil {
		return err
	}

	rec, ok := cal.Day(date)
	if !ok {
		rec = model.NewDayRecord(date)
	}
	events := cal.EventsForDate(date)

	if jsonOutput(c.globals) {
		return printJSON(dayJSON{Date: date.String(), Record: rec, Events: events})
	}

	fmt.Printf("%s (%s)\n", date, date.Time().Weekday())
	fmt.Printf("  Background: %s\n", orDash(rec.BackgroundColor))
	fmt.Printf("  Category:   %s\n", categoryName(cal, rec.CategoryID))
	fmt.Printf("  Notes:      %s\n", orDash(rec.Notes))

	if len(events) == 0 {
		fmt.Println("  No events.")
		return nil
	}
	fmt.Println()
	fmt.Println("Events:")
	for _, e := range events {
		fmt.Printf("  %-36s %s  %s\n", e.ID, formatSpan(e), e.Title)
	}
	return nil
}

// Execute implements the go-flags Commander interface for SetDayCommand.
func (c *SetDayCommand) Execute(args []string) error {
	if c.Background == nil && c.Notes == nil && c.Category == nil {
		return fmt.Errorf("set-day needs at least one of --background, --notes, --category")
	}
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore applies the day edits against a provided store (used by tests).
func (c *SetDayCommand) executeWithStore(cal *calendar.Store) error {
	date, err := parseDateFlag("date", c.Args.Date)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if c.Background != nil {
		if err := cal.SetDayBackground(ctx, date, *c.Background); err != nil {
			return err
		}
	}
	if c.Notes != nil {
		if err := cal.SetDayNotes(ctx, date, *c.Notes); err != nil {
			return err
		}
	}
	if c.Category != nil {
		if err := cal.SetDayCategory(ctx, date, *c.Category); err != nil {
			return err
		}
	}

	rec, _ := cal.Day(date)
	if jsonOutput(c.globals) {
		return printJSON(rec)
	}
	fmt.Printf("Updated %s\n", date)
	fmt.Printf("  Background: %s\n", orDash(rec.BackgroundColor))
	fmt.Printf("  Category:   %s\n", categoryName(cal, rec.CategoryID))
	fmt.Printf("  Notes:      %s\n", orDash(rec.Notes))
	return nil
}
