package model

import "slices"

// DayRecord holds per-date overrides and the ids of the events occurring on
// that date, in insertion order.
type DayRecord struct {
	DateKey         Date     `json:"dateKey"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	CategoryID      *string  `json:"categoryId,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	EventIDs        []string `json:"eventIds"`
}

// NewDayRecord returns an empty record for d.
func NewDayRecord(d Date) DayRecord {
	return DayRecord{DateKey: d, EventIDs: []string{}}
}

// Clone returns a copy that shares no slice storage with r.
func (r DayRecord) Clone() DayRecord {
	ids := make([]string, len(r.EventIDs))
	copy(ids, r.EventIDs)
	r.EventIDs = ids
	return r
}

// HasEvent reports whether id is listed on this date.
func (r DayRecord) HasEvent(id string) bool {
	return slices.Contains(r.EventIDs, id)
}

// WithEvent returns a copy with id appended. An id already present is not
// added twice.
func (r DayRecord) WithEvent(id string) DayRecord {
	out := r.Clone()
	if !out.HasEvent(id) {
		out.EventIDs = append(out.EventIDs, id)
	}
	return out
}

// WithoutEvent returns a copy with every occurrence of id removed.
func (r DayRecord) WithoutEvent(id string) DayRecord {
	out := r.Clone()
	out.EventIDs = slices.DeleteFunc(out.EventIDs, func(eid string) bool { return eid == id })
	return out
}

// IsBlank reports whether the record carries no events and no overrides.
func (r DayRecord) IsBlank() bool {
	return len(r.EventIDs) == 0 && r.BackgroundColor == nil && r.CategoryID == nil && r.Notes == nil
}
