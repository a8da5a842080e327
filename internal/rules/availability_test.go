package rules

import (
	"testing"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func completion(status models.CompletionStatus, at time.Time) models.QuestCompletion {
	return models.QuestCompletion{Status: status, CompletedAt: at}
}

func TestVentureAvailability(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	personal := models.PersonalMode()

	t.Run("unlimited-once venture consumed by a single completion", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeVenture}

		assert.True(t, questAvailableAt(quest, nil, now, now, nil, personal))
		assert.False(t, questAvailableAt(quest,
			[]models.QuestCompletion{completion(models.CompletionStatusApproved, now)},
			now, now, nil, personal))
	})

	t.Run("pending completions hold a slot", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeVenture, AvailabilityCount: intPtr(2)}
		completions := []models.QuestCompletion{
			completion(models.CompletionStatusPending, now),
			completion(models.CompletionStatusApproved, now),
		}

		assert.False(t, questAvailableAt(quest, completions, now, now, nil, personal))
	})

	t.Run("rejection hands the slot back", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeVenture, AvailabilityCount: intPtr(1)}
		completions := []models.QuestCompletion{
			completion(models.CompletionStatusRejected, now),
		}

		assert.True(t, questAvailableAt(quest, completions, now, now, nil, personal))
	})

	t.Run("past deadline closes the venture", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		quest := models.Quest{Type: models.QuestTypeVenture, EndDateTime: &deadline}

		assert.False(t, questAvailableAt(quest, nil, now, now, nil, personal))
	})

	t.Run("vacation suppresses the deadline", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		quest := models.Quest{Type: models.QuestTypeVenture, EndDateTime: &deadline}
		events := []models.ScheduledEvent{{
			EventType: models.EventTypeVacation,
			StartDate: "2025-06-09",
			EndDate:   "2025-06-11",
		}}

		assert.True(t, questAvailableAt(quest, nil, now, now, events, personal))
	})

	t.Run("guild vacation does not cover personal scope", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		quest := models.Quest{Type: models.QuestTypeVenture, EndDateTime: &deadline}
		events := []models.ScheduledEvent{{
			EventType: models.EventTypeVacation,
			GuildID:   "guild-1",
			StartDate: "2025-06-09",
			EndDate:   "2025-06-11",
		}}

		assert.False(t, questAvailableAt(quest, nil, now, now, events, personal))
		assert.True(t, questAvailableAt(quest, nil, now, now, events, models.GuildMode("guild-1")))
	})
}

func TestJourneyAvailability(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	personal := models.PersonalMode()

	t.Run("journeys are strictly once regardless of count", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeJourney, AvailabilityCount: intPtr(5)}
		completions := []models.QuestCompletion{
			completion(models.CompletionStatusApproved, now.Add(-48*time.Hour)),
		}

		assert.False(t, questAvailableAt(quest, completions, now, now, nil, personal))
	})
}

func TestDutyAvailability(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	personal := models.PersonalMode()
	daily := models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=DAILY"}

	t.Run("scheduled duty is available", func(t *testing.T) {
		assert.True(t, questAvailableAt(daily, nil, now, now, nil, personal))
	})

	t.Run("future dates are never available", func(t *testing.T) {
		tomorrow := now.AddDate(0, 0, 1)
		assert.False(t, questAvailableAt(daily, nil, tomorrow, now, nil, personal))
	})

	t.Run("already completed today", func(t *testing.T) {
		completions := []models.QuestCompletion{
			completion(models.CompletionStatusPending, now.Add(-2*time.Hour)),
		}
		assert.False(t, questAvailableAt(daily, completions, now, now, nil, personal))
	})

	t.Run("yesterday's completion does not block today", func(t *testing.T) {
		completions := []models.QuestCompletion{
			completion(models.CompletionStatusApproved, now.AddDate(0, 0, -1)),
		}
		assert.True(t, questAvailableAt(daily, completions, now, now, nil, personal))
	})

	t.Run("past the daily cutoff", func(t *testing.T) {
		quest := daily
		quest.EndTime = "09:00"
		assert.False(t, questAvailableAt(quest, nil, now, now, nil, personal))
	})

	t.Run("before the daily cutoff", func(t *testing.T) {
		quest := daily
		quest.EndTime = "20:00"
		assert.True(t, questAvailableAt(quest, nil, now, now, nil, personal))
	})

	t.Run("cutoff is ignored on an unscheduled day", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=WEEKLY;BYDAY=MO", EndTime: "09:00"}
		// 2025-06-10 is a Tuesday: not scheduled, so unavailable for that
		// reason rather than the lapsed cutoff.
		assert.False(t, questAvailableAt(quest, nil, now, now, nil, personal))
	})

	t.Run("vacation suppresses the cutoff", func(t *testing.T) {
		quest := daily
		quest.EndTime = "09:00"
		events := []models.ScheduledEvent{{
			EventType: models.EventTypeVacation,
			StartDate: "2025-06-10",
			EndDate:   "2025-06-10",
		}}
		assert.True(t, questAvailableAt(quest, nil, now, now, events, personal))
	})

	t.Run("monthly duty without bymonthday is never due", func(t *testing.T) {
		quest := models.Quest{Type: models.QuestTypeDuty, RRule: "FREQ=MONTHLY"}
		assert.False(t, questAvailableAt(quest, nil, now, now, nil, personal))
	})
}
