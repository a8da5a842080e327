package rules

import "time"

const ymdLayout = "2006-01-02"

// ToYMD renders a timestamp as its local calendar day, "2006-01-02".
// All calendar-granularity comparisons in this package go through it.
func ToYMD(t time.Time) string {
	return t.Format(ymdLayout)
}

// FromYMD parses a "2006-01-02" day back into a midnight timestamp.
// Malformed input yields the zero time rather than an error; callers
// comparing against real dates will simply never match it.
func FromYMD(day string) time.Time {
	t, err := time.Parse(ymdLayout, day)
	if err != nil {
		return time.Time{}
	}
	return t
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atTimeOfDay places an "HH:MM" wall-clock time onto day's calendar date.
// An unparseable value returns the zero time.
func atTimeOfDay(day time.Time, hhmm string) time.Time {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}

// minutesSinceMidnight converts a Duty "HH:MM" cutoff for sort keys.
// Missing or malformed values report false.
func minutesSinceMidnight(hhmm string) (int, bool) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return clock.Hour()*60 + clock.Minute(), true
}
