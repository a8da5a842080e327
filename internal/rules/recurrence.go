package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
)

// Recurrence is the parsed form of a Duty's rrule descriptor.
type Recurrence struct {
	Freq       Frequency
	ByDay      []time.Weekday
	ByMonthDay []int
}

var weekdayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ParseRecurrence reads the "FREQ=...;BYDAY=...;BYMONTHDAY=..." subset of
// rrule syntax. Unknown keys and unparseable values are skipped, never
// rejected; a descriptor that yields no usable frequency simply schedules
// nothing downstream.
func ParseRecurrence(raw string) Recurrence {
	var recurrence Recurrence

	for _, part := range strings.Split(raw, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.ToUpper(key) {
		case "FREQ":
			recurrence.Freq = Frequency(strings.ToUpper(value))
		case "BYDAY":
			for _, code := range strings.Split(value, ",") {
				if weekday, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
					recurrence.ByDay = append(recurrence.ByDay, weekday)
				}
			}
		case "BYMONTHDAY":
			for _, field := range strings.Split(value, ",") {
				if day, err := strconv.Atoi(strings.TrimSpace(field)); err == nil {
					recurrence.ByMonthDay = append(recurrence.ByMonthDay, day)
				}
			}
		}
	}

	return recurrence
}

// IsQuestScheduledForDay reports whether a quest falls on a calendar day.
//
// Ventures and Journeys are scheduled on every day between their start and
// end timestamps inclusive, by calendar date. Duties follow their rrule:
// daily is always scheduled, weekly defaults to every day when no BYDAY set
// is given, and monthly with no BYMONTHDAY set is scheduled never. The
// weekly/monthly default asymmetry is deliberate product behavior.
func IsQuestScheduledForDay(quest models.Quest, day time.Time) bool {
	if quest.Type == models.QuestTypeVenture || quest.Type == models.QuestTypeJourney {
		if quest.StartDateTime == nil {
			return false
		}
		dayKey := ToYMD(day)
		if dayKey < ToYMD(*quest.StartDateTime) {
			return false
		}
		if quest.EndDateTime != nil && dayKey > ToYMD(*quest.EndDateTime) {
			return false
		}
		return true
	}

	recurrence := ParseRecurrence(quest.RRule)
	switch recurrence.Freq {
	case FreqDaily:
		return true
	case FreqWeekly:
		if len(recurrence.ByDay) == 0 {
			return true
		}
		for _, weekday := range recurrence.ByDay {
			if day.Weekday() == weekday {
				return true
			}
		}
		return false
	case FreqMonthly:
		for _, monthDay := range recurrence.ByMonthDay {
			if day.Day() == monthDay {
				return true
			}
		}
		return false
	default:
		return false
	}
}
