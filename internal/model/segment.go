package model

import "time"

// Segment is the part of a multi-day event that falls inside one month,
// positioned for bar rendering. Segments are derived and never stored.
type Segment struct {
	EventID    string `json:"eventId"`
	Year       int    `json:"year"`
	MonthIndex int    `json:"monthIndex"` // 0-11
	StartCol   int    `json:"startCol"`   // 1-based day of month
	EndCol     int    `json:"endCol"`     // inclusive
	Lane       int    `json:"lane"`
	IsStart    bool   `json:"isStart"`
	IsEnd      bool   `json:"isEnd"`
	Color      string `json:"color"`
	Title      string `json:"title"`
}

// Overlaps reports whether two segments share at least one day column.
// Segments in different months never overlap.
func (s Segment) Overlaps(o Segment) bool {
	if s.Year != o.Year || s.MonthIndex != o.MonthIndex {
		return false
	}
	return s.StartCol <= o.EndCol && o.StartCol <= s.EndCol
}

// MonthInfo describes one month row of the year grid.
type MonthInfo struct {
	Year           int          `json:"year"`
	Month          int          `json:"month"` // 0-11
	DaysInMonth    int          `json:"daysInMonth"`
	StartDayOfWeek time.Weekday `json:"startDayOfWeek"`
}

// First returns the first date of the month.
func (m MonthInfo) First() Date {
	return Date{Year: m.Year, Month: time.Month(m.Month + 1), Day: 1}
}

// Last returns the last date of the month.
func (m MonthInfo) Last() Date {
	return Date{Year: m.Year, Month: time.Month(m.Month + 1), Day: m.DaysInMonth}
}
