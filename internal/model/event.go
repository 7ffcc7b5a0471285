package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the "HH:MM" form of Event.StartTime and Event.EndTime.
const TimeLayout = "15:04"

var (
	// ErrInvalidSpan is returned when an event ends before it starts.
	ErrInvalidSpan = errors.New("end date is before start date")
	// ErrEmptyTitle is returned by Validate for events without a title.
	ErrEmptyTitle = errors.New("title is required")
	// ErrInvalidTime is returned by Validate for malformed HH:MM values.
	ErrInvalidTime = errors.New("invalid time")
)

// Event is a calendar entry spanning one or more whole days. Optional
// attributes are nil when absent.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Color       *string   `json:"color,omitempty"`
	StartDate   Date      `json:"startDate"`
	EndDate     *Date     `json:"endDate,omitempty"` // inclusive
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LastDate returns the inclusive end of the event's span.
func (e Event) LastDate() Date {
	if e.EndDate == nil {
		return e.StartDate
	}
	return *e.EndDate
}

// IsMultiDay reports whether the event covers more than one date.
func (e Event) IsMultiDay() bool {
	return e.EndDate != nil && *e.EndDate != e.StartDate
}

// Span returns every date the event occupies, in order.
func (e Event) Span() ([]Date, error) {
	end := e.LastDate()
	if end.Before(e.StartDate) {
		return nil, fmt.Errorf("event %s: %w (%s > %s)", e.ID, ErrInvalidSpan, e.StartDate, end)
	}
	return DatesBetween(e.StartDate, end), nil
}

// Covers reports whether d falls inside the event's span.
func (e Event) Covers(d Date) bool {
	return !d.Before(e.StartDate) && !d.After(e.LastDate())
}

// Validate checks the rules the caller-facing layer enforces before an
// event reaches the store.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}
	if e.LastDate().Before(e.StartDate) {
		return ErrInvalidSpan
	}
	for _, t := range []*string{e.StartTime, e.EndTime} {
		if t == nil {
			continue
		}
		if _, err := time.Parse(TimeLayout, *t); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, *t)
		}
	}
	return nil
}

// DatesBetween returns every date from start to end inclusive. It returns
// nil when end is before start.
func DatesBetween(start, end Date) []Date {
	if end.Before(start) {
		return nil
	}
	var dates []Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// EventPatch is a partial update. Nil fields leave the event unchanged;
// an empty string clears an optional text field.
type EventPatch struct {
	Title        *string
	Description  *string
	StartTime    *string
	EndTime      *string
	CategoryID   *string
	Color        *string
	StartDate    *Date
	EndDate      *Date
	ClearEndDate bool
}

// Apply returns a copy of e with the patch merged in. ID and timestamps
// are left to the caller.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	e.Description = mergeOptional(e.Description, p.Description)
	e.StartTime = mergeOptional(e.StartTime, p.StartTime)
	e.EndTime = mergeOptional(e.EndTime, p.EndTime)
	e.CategoryID = mergeOptional(e.CategoryID, p.CategoryID)
	e.Color = mergeOptional(e.Color, p.Color)
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	switch {
	case p.ClearEndDate:
		e.EndDate = nil
	case p.EndDate != nil:
		end := *p.EndDate
		e.EndDate = &end
	}
	return e
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p == EventPatch{}
}

// Optional returns nil for the empty string and a pointer to s otherwise.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value dereferences an optional string, returning "" when absent.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mergeOptional(current, update *string) *string {
	if update == nil {
		return current
	}
	return Optional(*update)
}
