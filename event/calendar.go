package event

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"
)

// Calendar holds the holiday events covering a span of whole years. It is immutable once
// built and safe for concurrent use.
type Calendar struct {
	events []Event
}

// NewCalendar builds the events of every holiday in hols for each year touched by
// [start, end], aligned to midnight in the location of start. With no holidays
// MajorUSHolidays are used.
func NewCalendar(start, end time.Time, hols ...*cal.Holiday) *Calendar {
	if len(hols) == 0 {
		hols = MajorUSHolidays
	}
	loc := start.Location()
	yearStart := time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := time.Date(end.Year(), time.December, 31, 23, 59, 59, 0, loc)

	var events []Event
	for _, hol := range hols {
		events = append(events, Holiday(hol, yearStart, yearEnd, 0, 0)...)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return &Calendar{events: events}
}

// Events returns a copy of the calendar events ordered by start time.
func (c *Calendar) Events() []Event {
	if c == nil {
		return nil
	}
	events := make([]Event, len(c.events))
	copy(events, c.events)
	return events
}

// IsHoliday reports whether tPnt falls on an observed holiday and returns its event.
func (c *Calendar) IsHoliday(tPnt time.Time) (Event, bool) {
	if c == nil {
		return Event{}, false
	}
	for _, ev := range c.events {
		if ev.Contains(tPnt) {
			return ev, true
		}
	}
	return Event{}, false
}

// Mask returns 1.0 for every time point on a holiday and 0.0 otherwise.
func (c *Calendar) Mask(t []time.Time) []float64 {
	mask := make([]float64, len(t))
	for i, tPnt := range t {
		if _, ok := c.IsHoliday(tPnt); ok {
			mask[i] = 1.0
		}
	}
	return mask
}
