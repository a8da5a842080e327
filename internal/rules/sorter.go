package rules

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// noTimeSentinel sorts quests without a relevant time after every quest
// that has one.
const noTimeSentinel = int64(math.MaxInt64)

type questSortKey struct {
	availability int
	urgency      int
	todo         int
	questType    int
	time         int64
	title        string
}

// QuestSorter builds a comparator for slices.SortStableFunc that orders a
// user's quests for display: available before unavailable, then most urgent,
// then to-do ventures, then by type, deadline time, and title.
func QuestSorter(user models.User, allCompletions []models.QuestCompletion, events []models.ScheduledEvent, date time.Time) func(a, b models.Quest) int {
	keys := make(map[string]questSortKey)

	keyFor := func(quest models.Quest) questSortKey {
		if key, ok := keys[quest.ID]; ok {
			return key
		}
		key := buildSortKey(quest, user, allCompletions, events, date)
		keys[quest.ID] = key
		return key
	}

	return func(a, b models.Quest) int {
		keyA, keyB := keyFor(a), keyFor(b)
		if c := cmp.Compare(keyA.availability, keyB.availability); c != 0 {
			return c
		}
		if c := cmp.Compare(keyA.urgency, keyB.urgency); c != 0 {
			return c
		}
		if c := cmp.Compare(keyA.todo, keyB.todo); c != 0 {
			return c
		}
		if c := cmp.Compare(keyA.questType, keyB.questType); c != 0 {
			return c
		}
		if c := cmp.Compare(keyA.time, keyB.time); c != 0 {
			return c
		}
		return strings.Compare(keyA.title, keyB.title)
	}
}

func buildSortKey(quest models.Quest, user models.User, allCompletions []models.QuestCompletion, events []models.ScheduledEvent, date time.Time) questSortKey {
	mode := models.ModeForQuest(quest)
	userCompletions := CompletionsForQuestUser(allCompletions, quest, user.ID)

	key := questSortKey{
		availability: 1,
		todo:         1,
		questType:    typePriority(quest.Type),
		urgency:      urgencyPriority(quest, date),
		time:         timePriority(quest),
		title:        strings.ToLower(quest.Title),
	}
	if IsQuestAvailableForUser(quest, userCompletions, date, events, mode) {
		key.availability = 0
	}
	if quest.Type == models.QuestTypeVenture && slices.Contains(quest.TodoUserIDs, user.ID) {
		key.todo = 0
	}
	return key
}

// urgencyPriority: 0 past-due-or-due-today, 1 due in the future, 2 not
// time-boxed. A Duty counts as urgent on any day it is scheduled with a
// cutoff, whether or not the cutoff has already passed.
func urgencyPriority(quest models.Quest, date time.Time) int {
	switch quest.Type {
	case models.QuestTypeVenture, models.QuestTypeJourney:
		if quest.EndDateTime == nil {
			return 2
		}
		if ToYMD(*quest.EndDateTime) <= ToYMD(startOfDay(date)) {
			return 0
		}
		return 1
	case models.QuestTypeDuty:
		if quest.EndTime != "" && IsQuestScheduledForDay(quest, date) {
			return 0
		}
		return 2
	default:
		return 2
	}
}

func typePriority(questType models.QuestType) int {
	switch questType {
	case models.QuestTypeDuty:
		return 0
	case models.QuestTypeVenture:
		return 1
	case models.QuestTypeJourney:
		return 2
	default:
		return 3
	}
}

func timePriority(quest models.Quest) int64 {
	switch quest.Type {
	case models.QuestTypeVenture, models.QuestTypeJourney:
		if quest.EndDateTime != nil {
			return quest.EndDateTime.UnixMilli()
		}
	case models.QuestTypeDuty:
		if minutes, ok := minutesSinceMidnight(quest.EndTime); ok {
			return int64(minutes)
		}
	}
	return noTimeSentinel
}

// CompletionsForQuestUser narrows a full completion history to one quest,
// one user, and the quest's own scope: the pre-filtering the availability
// resolver expects its caller to have done.
func CompletionsForQuestUser(allCompletions []models.QuestCompletion, quest models.Quest, userID string) []models.QuestCompletion {
	var filtered []models.QuestCompletion
	for _, completion := range allCompletions {
		if completion.QuestID == quest.ID && completion.UserID == userID && completion.GuildID == quest.GuildID {
			filtered = append(filtered, completion)
		}
	}
	return filtered
}
