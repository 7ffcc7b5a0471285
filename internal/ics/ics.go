// Package ics renders the event store as an iCalendar (RFC 5545) stream.
package ics

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/runnerr0/montycal/internal/model"
)

// DefaultProductID is written as PRODID when Options leaves it empty.
const DefaultProductID = "-//montycal//EN"

// ErrNoEvents is returned when there is nothing to encode.
var ErrNoEvents = errors.New("ics: no events to export")

// Options controls encoding.
type Options struct {
	ProductID string
	// Location is used for events with a start time. Nil means UTC.
	Location *time.Location
	// Now stamps DTSTAMP. Nil means time.Now.
	Now func() time.Time
}

// Calendar builds a VCALENDAR holding one VEVENT per event, ordered by start
// date then id.
func Calendar(events map[string]model.Event, categories []model.Category, opts Options) (*ical.Calendar, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	productID := opts.ProductID
	if productID == "" {
		productID = DefaultProductID
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, e := range sortedEvents(events) {
		vevent, err := toVEvent(e, categories, loc, stamp)
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, vevent.Component)
	}
	return cal, nil
}

// Encode writes events to w as a single VCALENDAR.
func Encode(w io.Writer, events map[string]model.Event, categories []model.Category, opts Options) error {
	cal, err := Calendar(events, categories, opts)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(e model.Event, categories []model.Category, loc *time.Location, stamp time.Time) (*ical.Event, error) {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, e.ID)
	vevent.Props.SetText(ical.PropSummary, e.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

	if desc := model.Value(e.Description); desc != "" {
		vevent.Props.SetText(ical.PropDescription, desc)
	}
	if e.CategoryID != nil {
		if c, ok := model.FindCategory(categories, *e.CategoryID); ok {
			vevent.Props.SetText(ical.PropCategories, c.Name)
		}
	}
	if !e.CreatedAt.IsZero() {
		vevent.Props.SetDateTime(ical.PropCreated, e.CreatedAt.UTC())
	}
	if !e.UpdatedAt.IsZero() {
		vevent.Props.SetDateTime(ical.PropLastModified, e.UpdatedAt.UTC())
	}

	last := e.LastDate()
	startTime := model.Value(e.StartTime)
	if startTime == "" {
		// All-day: DTEND is exclusive.
		vevent.Props.SetDate(ical.PropDateTimeStart, e.StartDate.Time())
		vevent.Props.SetDate(ical.PropDateTimeEnd, last.AddDays(1).Time())
		return vevent, nil
	}

	start, err := at(e.StartDate, startTime, loc)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}
	vevent.Props.SetDateTime(ical.PropDateTimeStart, start)

	var end time.Time
	if endTime := model.Value(e.EndTime); endTime != "" {
		if end, err = at(last, endTime, loc); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
	} else if e.IsMultiDay() {
		end = last.AddDays(1).Time()
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	}
	if end.After(start) {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, end)
	}
	return vevent, nil
}

func at(d model.Date, hhmm string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(model.TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrInvalidTime, hhmm)
	}
	return time.Date(d.Year, d.Month, d.Day, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

func sortedEvents(events map[string]model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b model.Event) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
