package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/model"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("--title is required for add command")
	}
	if c.Start == "" {
		return fmt.Errorf("--start is required for add command")
	}
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// event builds and validates the event described by the flags.
func (c *AddCommand) event() (model.Event, error) {
	start, err := parseDateFlag("start", c.Start)
	if err != nil {
		return model.Event{}, err
	}

	e := model.Event{
		Title:       strings.TrimSpace(c.Title),
		StartDate:   start,
		StartTime:   model.Optional(c.StartTime),
		EndTime:     model.Optional(c.EndTime),
		Description: model.Optional(c.Description),
		CategoryID:  model.Optional(c.Category),
		Color:       model.Optional(c.Color),
	}
	if c.End != "" {
		end, err := parseDateFlag("end", c.End)
		if err != nil {
			return model.Event{}, err
		}
		e.EndDate = &end
	}

	if err := e.Validate(); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// executeWithStore runs the add logic against a provided store (used by tests).
func (c *AddCommand) executeWithStore(cal *calendar.Store) error {
	e, err := c.event()
	if err != nil {
		return err
	}

	saved, err := cal.AddEvent(context.Background(), e)
	if err != nil {
		return fmt.Errorf("adding event: %w", err)
	}

	if jsonOutput(c.globals) {
		return printJSON(saved)
	}

	fmt.Printf("Added event %s\n", saved.ID)
	fmt.Printf("  Title: %s\n", saved.Title)
	fmt.Printf("  When:  %s\n", formatSpan(saved))
	if saved.CategoryID != nil {
		fmt.Printf("  Category: %s\n", categoryName(cal, saved.CategoryID))
	}
	return nil
}

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

func (c *EditCommand) patch() (model.EventPatch, error) {
	p := model.EventPatch{
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		Description:  c.Description,
		CategoryID:   c.Category,
		Color:        c.Color,
		ClearEndDate: c.ClearEnd,
	}
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title == "" {
			return p, model.ErrEmptyTitle
		}
		p.Title = &title
	}
	if c.Start != nil {
		d, err := parseDateFlag("start", *c.Start)
		if err != nil {
			return p, err
		}
		p.StartDate = &d
	}
	if c.End != nil {
		if c.ClearEnd {
			return p, fmt.Errorf("--end and --clear-end are mutually exclusive")
		}
		d, err := parseDateFlag("end", *c.End)
		if err != nil {
			return p, err
		}
		p.EndDate = &d
	}
	if p.IsEmpty() {
		return p, fmt.Errorf("nothing to change: pass at least one field flag")
	}
	return p, nil
}

// executeWithStore runs the edit logic against a provided store (used by tests).
func (c *EditCommand) executeWithStore(cal *calendar.Store) error {
	existing, ok := cal.Event(c.Args.ID)
	if !ok {
		return fmt.Errorf("event %q not found", c.Args.ID)
	}

	p, err := c.patch()
	if err != nil {
		return err
	}
	if err := p.Apply(existing).Validate(); err != nil {
		return err
	}

	if err := cal.UpdateEvent(context.Background(), c.Args.ID, p); err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	updated, _ := cal.Event(c.Args.ID)
	if jsonOutput(c.globals) {
		return printJSON(updated)
	}
	fmt.Printf("Updated event %s\n", updated.ID)
	fmt.Printf("  Title: %s\n", updated.Title)
	fmt.Printf("  When:  %s\n", formatSpan(updated))
	return nil
}

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore deletes each id in turn, stopping at the first failure.
// Unknown ids are reported but not treated as errors.
func (c *RemoveCommand) executeWithStore(cal *calendar.Store) error {
	ctx := context.Background()
	var deleted, missing []string

	for _, id := range c.Args.IDs {
		if _, ok := cal.Event(id); !ok {
			missing = append(missing, id)
			continue
		}
		if err := cal.DeleteEvent(ctx, id); err != nil {
			return fmt.Errorf("deleting event %s: %w", id, err)
		}
		deleted = append(deleted, id)
	}

	if jsonOutput(c.globals) {
		return printJSON(map[string][]string{
			"deleted": nonNil(deleted),
			"missing": nonNil(missing),
		})
	}
	for _, id := range deleted {
		fmt.Printf("Deleted event %s\n", id)
	}
	for _, id := range missing {
		fmt.Printf("No event %s\n", id)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
