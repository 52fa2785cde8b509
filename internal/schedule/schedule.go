// Package schedule holds the pure time arithmetic behind availability:
// clock-time values, fixed-length slot generation and half-open interval
// overlap. It performs no I/O.
package schedule

import (
	"fmt"
	"time"
)

const (
	// TimeLayout is the wire format for clock times.
	TimeLayout = "15:04"
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (seconds are discarded,
// Postgres TIME columns come back with them).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On anchors the clock time to a calendar date in that date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Window is a business's opening window for one weekday. Open < Close.
type Window struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Slot is one candidate bookable interval, exactly one service duration long.
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

// BuildSlots emits consecutive non-overlapping slots of durationMinutes
// starting at open; a slot whose end would pass close is discarded. The
// result is chronological and empty when the duration does not fit.
func BuildSlots(open, close TimeOfDay, durationMinutes int) []Slot {
	if durationMinutes <= 0 || close <= open {
		return nil
	}
	var slots []Slot
	d := TimeOfDay(durationMinutes)
	for start := open; start+d <= close; start += d {
		slots = append(slots, Slot{Start: start, End: start + d})
	}
	return slots
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Half-open: touching endpoints do not overlap, so back-to-back bookings
// never conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ISOWeekday maps a date to Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
