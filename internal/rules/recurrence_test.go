package rules

import (
	"testing"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestParseRecurrence(t *testing.T) {
	recurrence := ParseRecurrence("FREQ=WEEKLY;BYDAY=MO,FR")
	assert.Equal(t, FreqWeekly, recurrence.Freq)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, recurrence.ByDay)

	recurrence = ParseRecurrence("freq=monthly;bymonthday=1, 15")
	assert.Equal(t, FreqMonthly, recurrence.Freq)
	assert.Equal(t, []int{1, 15}, recurrence.ByMonthDay)

	recurrence = ParseRecurrence("FREQ=DAILY;BOGUS;BYDAY=XX")
	assert.Equal(t, FreqDaily, recurrence.Freq)
	assert.Empty(t, recurrence.ByDay)
}

func TestIsQuestScheduledForDay(t *testing.T) {
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	fifteenth := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		quest models.Quest
		day   time.Time
		want  bool
	}{
		{
			name:  "daily duty is always scheduled",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=DAILY"},
			day:   tuesday,
			want:  true,
		},
		{
			name:  "weekly duty matches its weekday",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=WEEKLY;BYDAY=MO"},
			day:   monday,
			want:  true,
		},
		{
			name:  "weekly duty skips other weekdays",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=WEEKLY;BYDAY=MO"},
			day:   tuesday,
			want:  false,
		},
		{
			name:  "weekly duty with no byday runs every day",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=WEEKLY"},
			day:   tuesday,
			want:  true,
		},
		{
			name:  "monthly duty with no bymonthday never runs",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=MONTHLY"},
			day:   fifteenth,
			want:  false,
		},
		{
			name:  "monthly duty matches its day of month",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=MONTHLY;BYMONTHDAY=15"},
			day:   fifteenth,
			want:  true,
		},
		{
			name:  "unknown frequency schedules nothing",
			quest: models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=YEARLY"},
			day:   monday,
			want:  false,
		},
		{
			name: "venture inside its window",
			quest: models.Quest{
				Type:          models.QuestTypeVenture,
				StartDateTime: datePtr(monday),
				EndDateTime:   datePtr(fifteenth),
			},
			day:  tuesday,
			want: true,
		},
		{
			name: "venture scheduled on its end date",
			quest: models.Quest{
				Type:          models.QuestTypeVenture,
				StartDateTime: datePtr(monday),
				EndDateTime:   datePtr(fifteenth),
			},
			day:  fifteenth,
			want: true,
		},
		{
			name: "venture before its start date",
			quest: models.Quest{
				Type:          models.QuestTypeVenture,
				StartDateTime: datePtr(tuesday),
			},
			day:  monday,
			want: false,
		},
		{
			name:  "venture with no start date is never scheduled",
			quest: models.Quest{Type: models.QuestTypeVenture},
			day:   monday,
			want:  false,
		},
		{
			name: "journey with open end runs from its start",
			quest: models.Quest{
				Type:          models.QuestTypeJourney,
				StartDateTime: datePtr(monday),
			},
			day:  fifteenth,
			want: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsQuestScheduledForDay(test.quest, test.day))
		})
	}
}
