package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/ics"
)

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore exports a provided store (used by tests).
func (c *ExportCommand) executeWithStore(cal *calendar.Store) error {
	data, err := cal.Export(context.Background())
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if err := writeOutput(c.Output, data); err != nil {
		return err
	}
	if c.Output != "" {
		st := cal.Stats()
		fmt.Printf("Exported %d events, %d days, %d categories to %s\n", st.Events, st.Days, st.Categories, c.Output)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		return c.executeWithStore(s.cal)
	})
}

func (c *ImportCommand) read() ([]byte, error) {
	if c.Args.File != "-" {
		data, err := os.ReadFile(c.Args.File)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot: %w", err)
		}
		return data, nil
	}
	in := c.stdin
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// executeWithStore imports into a provided store (used by tests).
func (c *ImportCommand) executeWithStore(cal *calendar.Store) error {
	data, err := c.read()
	if err != nil {
		return err
	}
	if err := cal.Import(context.Background(), data); err != nil {
		return err
	}

	st := cal.Stats()
	if jsonOutput(c.globals) {
		return printJSON(st)
	}
	fmt.Printf("Imported. Now %d events, %d days, %d categories.\n", st.Events, st.Days, st.Categories)
	if st.Issues > 0 {
		fmt.Printf("Day index has %d issue(s); run \"montycal check --repair\".\n", st.Issues)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ICSCommand.
func (c *ICSCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		c.cfg = s.cfg
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore renders a provided store as iCalendar (used by tests).
func (c *ICSCommand) executeWithStore(cal *calendar.Store) error {
	cfg := configOrDefault(c.cfg)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	opts := ics.Options{ProductID: cfg.ICS.ProductID, Location: loc}
	if err := ics.Encode(&buf, cal.Events(), cal.Categories(), opts); err != nil {
		return err
	}
	if err := writeOutput(c.Output, buf.Bytes()); err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("Wrote %d events to %s\n", len(cal.Events()), c.Output)
	}
	return nil
}
