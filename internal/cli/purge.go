package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/montycal/internal/calendar"
)

var errPurgeNeedsAll = errors.New("refusing to purge without --all")

// Execute wipes every event, day and category after confirmation.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return errPurgeNeedsAll
	}
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

func (c *PurgeCommand) confirm() error {
	fmt.Println("Every event, day note, day colour and category will be deleted.")
	fmt.Println("Default categories come back on the next run; nothing else does.")
	fmt.Println()
	fmt.Print(`Type "PURGE" to confirm: `)

	in := c.stdin
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return errors.New("purge aborted: nothing typed")
	}
	if strings.TrimSpace(scanner.Text()) != "PURGE" {
		return errors.New("purge aborted: expected PURGE")
	}
	return nil
}

// executeWithStore purges a provided store (used by tests).
func (c *PurgeCommand) executeWithStore(cal *calendar.Store) error {
	if !c.All {
		return errPurgeNeedsAll
	}
	if !c.Force {
		if err := c.confirm(); err != nil {
			return err
		}
	}

	before := cal.Stats()
	if err := cal.Wipe(context.Background()); err != nil {
		return fmt.Errorf("wipe calendar: %w", err)
	}

	if jsonOutput(c.globals) {
		return printJSON(map[string]any{
			"purged":     true,
			"events":     before.Events,
			"days":       before.Days,
			"categories": before.Categories,
		})
	}

	fmt.Printf("Purged %d events, %d days, %d categories. Calendar is empty.\n", before.Events, before.Days, before.Categories)
	return nil
}
