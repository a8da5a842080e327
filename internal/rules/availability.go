package rules

import (
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// IsQuestAvailableForUser decides whether a user can complete a quest at the
// instant carried by today. userCompletions must already be filtered to this
// quest, user, and scope by the caller.
func IsQuestAvailableForUser(quest models.Quest, userCompletions []models.QuestCompletion, today time.Time, events []models.ScheduledEvent, mode models.AppMode) bool {
	return questAvailableAt(quest, userCompletions, today, time.Now(), events, mode)
}

func questAvailableAt(quest models.Quest, userCompletions []models.QuestCompletion, today, now time.Time, events []models.ScheduledEvent, mode models.AppMode) bool {
	onVacation := IsVacationActiveOnDate(today, events, mode.GuildID)

	switch quest.Type {
	case models.QuestTypeVenture:
		if pastDeadline(quest, today) && !onVacation {
			return false
		}
		consumed := countConsumed(userCompletions)
		if quest.AvailabilityCount != nil {
			return consumed < *quest.AvailabilityCount
		}
		return consumed == 0

	case models.QuestTypeJourney:
		if pastDeadline(quest, today) && !onVacation {
			return false
		}
		return countConsumed(userCompletions) == 0

	case models.QuestTypeDuty:
		// Duties cannot be pre-completed on a future date.
		if ToYMD(today) > ToYMD(now) {
			return false
		}
		// The daily cutoff only matters on a day the duty is actually due.
		if !onVacation && quest.EndTime != "" && IsQuestScheduledForDay(quest, today) {
			deadline := atTimeOfDay(today, quest.EndTime)
			if !deadline.IsZero() && today.After(deadline) {
				return false
			}
		}
		if !IsQuestScheduledForDay(quest, today) {
			return false
		}
		todayKey := ToYMD(today)
		for _, completion := range userCompletions {
			if ToYMD(completion.CompletedAt) == todayKey {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func pastDeadline(quest models.Quest, today time.Time) bool {
	return quest.EndDateTime != nil && today.After(*quest.EndDateTime)
}

// countConsumed counts completions that hold or held a slot: pending and
// approved both consume availability, rejected ones hand it back.
func countConsumed(completions []models.QuestCompletion) int {
	count := 0
	for _, completion := range completions {
		if completion.Status != models.CompletionStatusRejected {
			count++
		}
	}
	return count
}
