package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/montycal/internal/calendar"
)

// checkJSON is the JSON output structure for the check command.
type checkJSON struct {
	Issues   []calendar.Issue `json:"issues"`
	Repaired int              `json:"repaired"`
}

// Execute implements the go-flags Commander interface for CheckCommand.
func (c *CheckCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore checks, and optionally repairs, a provided store (used by tests).
func (c *CheckCommand) executeWithStore(cal *calendar.Store) error {
	issues := cal.Check()
	out := checkJSON{Issues: issues}
	if out.Issues == nil {
		out.Issues = []calendar.Issue{}
	}

	if c.Repair && len(issues) > 0 {
		n, err := cal.Repair(context.Background())
		out.Repaired = n
		if err != nil {
			return fmt.Errorf("repair stopped after %d records: %w", n, err)
		}
	}

	if jsonOutput(c.globals) {
		return printJSON(out)
	}

	if len(issues) == 0 {
		fmt.Println("Day index is consistent.")
		return nil
	}
	fmt.Printf("Found %d issue(s):\n", len(issues))
	for _, issue := range issues {
		fmt.Printf("  %s\n", issue)
	}
	if c.Repair {
		fmt.Printf("Repaired %d day record(s).\n", out.Repaired)
	} else {
		fmt.Println("Run with --repair to fix.")
	}
	return nil
}
