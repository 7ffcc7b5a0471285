package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/runnerr0/montycal/internal/calendar"
	"github.com/runnerr0/montycal/internal/layout"
	"github.com/runnerr0/montycal/internal/model"
)

// monthJSON is one month row of the layout command's JSON output.
type monthJSON struct {
	model.MonthInfo
	Lanes    int             `json:"lanes"`
	Segments []model.Segment `json:"segments"`
}

// Execute implements the go-flags Commander interface for LayoutCommand.
func (c *LayoutCommand) Execute(args []string) error {
	return withSession(c.globals, func(s *session) error {
		c.cfg = s.cfg
		return c.executeWithStore(s.cal)
	})
}

func (c *LayoutCommand) years() []int {
	if len(c.Years) == 0 {
		return []int{time.Now().Year()}
	}
	years := slices.Clone(c.Years)
	slices.Sort(years)
	return slices.Compact(years)
}

// executeWithStore lays out multi-day events against a provided store (used by tests).
func (c *LayoutCommand) executeWithStore(cal *calendar.Store) error {
	if c.Month < 0 || c.Month > 12 {
		return fmt.Errorf("--month must be between 1 and 12")
	}
	cfg := configOrDefault(c.cfg)
	opts := layout.Options{DefaultColor: cfg.Layout.DefaultColor}

	years := c.years()
	byYear := layout.SegmentsForYears(years, cal.Events(), cal.Categories(), opts)

	out := map[int][]monthJSON{}
	for _, year := range years {
		segs := byYear[year]
		for _, m := range layout.Months(year) {
			if c.Month != 0 && m.Month != c.Month-1 {
				continue
			}
			rows := layout.ForMonth(segs, year, m.Month)
			if len(rows) == 0 && c.Month == 0 {
				continue
			}
			out[year] = append(out[year], monthJSON{
				MonthInfo: m,
				Lanes:     layout.LaneCount(segs, year, m.Month),
				Segments:  nonNilSegments(rows),
			})
		}
	}

	if jsonOutput(c.globals) {
		return printJSON(out)
	}

	for _, year := range years {
		fmt.Printf("%d\n", year)
		if len(out[year]) == 0 {
			fmt.Println("  No multi-day events.")
			continue
		}
		for _, m := range out[year] {
			name := time.Month(m.Month + 1).String()[:3]
			fmt.Printf("  %s  %d lane(s)\n", name, m.Lanes)
			for _, seg := range m.Segments {
				fmt.Printf("    lane %d  %s  %s %s\n", seg.Lane, bar(seg, m.DaysInMonth), seg.Color, seg.Title)
			}
		}
	}
	return nil
}

// bar draws a segment across the month's day columns. Rounded ends mark
// the event's true start and end; flat ends mean it continues.
func bar(seg model.Segment, days int) string {
	var b strings.Builder
	for col := 1; col <= days; col++ {
		switch {
		case col < seg.StartCol || col > seg.EndCol:
			b.WriteByte('.')
		case col == seg.StartCol && seg.IsStart:
			b.WriteByte('(')
		case col == seg.EndCol && seg.IsEnd:
			b.WriteByte(')')
		default:
			b.WriteByte('=')
		}
	}
	return b.String()
}

func nonNilSegments(s []model.Segment) []model.Segment {
	if s == nil {
		return []model.Segment{}
	}
	return s
}
