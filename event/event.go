// Package event models calendar events, such as public holidays, that change how a
// building consumes energy.
package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Event represents a named time span [Start, End).
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

func NewEvent(name string, start, end time.Time) Event {
	return Event{
		Name:  name,
		Start: start,
		End:   end,
	}
}

// Contains reports whether tPnt falls within [Start, End).
func (e Event) Contains(tPnt time.Time) bool {
	return (tPnt.After(e.Start) || tPnt.Equal(e.Start)) && tPnt.Before(e.End)
}

// MajorUSHolidays are the holidays where most commercial buildings run a weekend schedule.
var MajorUSHolidays = []*cal.Holiday{
	us.NewYear,
	us.MemorialDay,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Holiday returns one event per observed occurrence of hol between start and end. Each
// event spans the observed day in the location of start, widened by durBefore and durAfter.
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Event {
	startLoc := start.Location()

	events := []Event{}
	for i := start.Year(); i <= end.Year(); i++ {
		_, observed := hol.Calc(i)
		_, offset := observed.Zone()
		_, startOffset := start.Zone()

		observed = observed.Add(time.Duration(offset) * time.Second).In(startLoc).Add(time.Duration(-startOffset) * time.Second)

		if (observed.After(start) || observed.Equal(start)) && (observed.Before(end) || observed.Equal(end)) {
			events = append(events, NewEvent(
				strings.ReplaceAll(fmt.Sprintf("%s_%d", hol.Name, i), " ", "_"),
				observed.Add(-durBefore),
				observed.Add(24*time.Hour).Add(durAfter),
			))
		}
	}
	return events
}
