package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/model"
)

// Execute implements the go-flags Commander interface for CategoriesCommand.
func (c *CategoriesCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore lists categories from a provided store (used by tests).
func (c *CategoriesCommand) executeWithStore(cal *calendar.Store) error {
	cats := cal.Categories()
	if jsonOutput(c.globals) {
		return printJSON(cats)
	}
	if len(cats) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, cat := range cats {
		fmt.Printf("%3d  %-36s %-8s %s\n", cat.SortOrder, cat.ID, cat.Color, cat.Name)
	}
	return nil
}

// Execute implements the go-flags Commander interface for CategoryAddCommand.
func (c *CategoryAddCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore appends a category to a provided store (used by tests).
func (c *CategoryAddCommand) executeWithStore(cal *calendar.Store) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("--name is required for category-add command")
	}
	if c.Color == "" {
		return fmt.Errorf("--color is required for category-add command")
	}

	cat, err := cal.AddCategory(context.Background(), name, c.Color)
	if err != nil {
		return fmt.Errorf("adding category: %w", err)
	}
	if jsonOutput(c.globals) {
		return printJSON(cat)
	}
	fmt.Printf("Added category %s (%s, %s)\n", cat.ID, cat.Name, cat.Color)
	return nil
}

// Execute implements the go-flags Commander interface for CategoryEditCommand.
func (c *CategoryEditCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore patches a category in a provided store (used by tests).
func (c *CategoryEditCommand) executeWithStore(cal *calendar.Store) error {
	if _, ok := cal.Category(c.Args.ID); !ok {
		return fmt.Errorf("category %q not found", c.Args.ID)
	}
	if c.Name == nil && c.Color == nil && c.Order == nil {
		return fmt.Errorf("nothing to change: pass --name, --color or --order")
	}
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return fmt.Errorf("--name cannot be empty")
	}

	patch := model.CategoryPatch{Name: c.Name, Color: c.Color, SortOrder: c.Order}
	if err := cal.UpdateCategory(context.Background(), c.Args.ID, patch); err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	cat, _ := cal.Category(c.Args.ID)
	if jsonOutput(c.globals) {
		return printJSON(cat)
	}
	fmt.Printf("Updated category %s (%s, %s, order %d)\n", cat.ID, cat.Name, cat.Color, cat.SortOrder)
	return nil
}

// Execute implements the go-flags Commander interface for CategoryRemoveCommand.
func (c *CategoryRemoveCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore deletes a category from a provided store (used by tests).
func (c *CategoryRemoveCommand) executeWithStore(cal *calendar.Store) error {
	cat, ok := cal.Category(c.Args.ID)
	if !ok {
		return fmt.Errorf("category %q not found", c.Args.ID)
	}
	if err := cal.DeleteCategory(context.Background(), c.Args.ID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if jsonOutput(c.globals) {
		return printJSON(map[string]string{"deleted": cat.ID})
	}
	fmt.Printf("Deleted category %s (%s)\n", cat.ID, cat.Name)
	return nil
}
