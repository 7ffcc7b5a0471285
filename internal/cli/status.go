package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/runnerr0/montycal/internal/calendar"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	Backend           string `json:"backend"`
	DatabasePath      string `json:"database_path,omitempty"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	calendar.Stats
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		c.backend = s.backend
		c.dbPath = s.dbPath
		return c.executeWithStore(s.cal)
	})
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(cal *calendar.Store) error {
	stats := cal.Stats()
	backend := c.backend
	if backend == "" {
		backend = "memory"
	}
	dbSize := databaseSize(c.dbPath)

	if jsonOutput(c.globals) {
		return printJSON(statusJSON{
			Version:           c.version,
			Backend:           backend,
			DatabasePath:      c.dbPath,
			DatabaseSizeBytes: dbSize,
			Stats:             stats,
		})
	}

	fmt.Println("montycal status")
	fmt.Println("===============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Backend:       %s\n", backend)
	if c.dbPath != "" {
		fmt.Printf("Database:      %s (%s)\n", c.dbPath, formatBytes(dbSize))
	}
	fmt.Printf("Events:        %s (%s multi-day)\n", formatNumber(int64(stats.Events)), formatNumber(int64(stats.MultiDayEvents)))
	fmt.Printf("Days:          %s\n", formatNumber(int64(stats.Days)))
	fmt.Printf("Categories:    %s\n", formatNumber(int64(stats.Categories)))
	if stats.Issues > 0 {
		fmt.Printf("Index issues:  %d (run \"montycal check\")\n", stats.Issues)
	} else {
		fmt.Println("Index issues:  none")
	}
	return nil
}

// databaseSize returns the file size, or 0 for in-memory or missing files.
func databaseSize(path string) int64 {
	if path == "" || path == ":memory:" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// formatBytes renders a size with a binary unit suffix.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	size, suffix := float64(b)/unit, "KB"
	for _, next := range []string{"MB", "GB"} {
		if size < unit {
			break
		}
		size, suffix = size/unit, next
	}
	return fmt.Sprintf("%.1f %s", size, suffix)
}

// formatNumber groups digits in threes: 1234567 -> 1,234,567.
func formatNumber(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return sign + strings.Join(groups, ",")
}
