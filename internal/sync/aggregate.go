package sync

import "github.com/mckayc/task-donegeon-sub006/internal/models"

// Delta is the wire shape shared by the delta endpoint and the client
// store: a full payload on first sync, changed entities afterwards.
// Every collection is optional; nil means untouched.
type Delta struct {
	Users              []models.User                 `json:"users,omitempty"`
	Quests             []models.Quest                `json:"quests,omitempty"`
	QuestCompletions   []models.QuestCompletion      `json:"questCompletions,omitempty"`
	Markets            []models.Market               `json:"markets,omitempty"`
	Guilds             []models.Guild                `json:"guilds,omitempty"`
	ScheduledEvents    []models.ScheduledEvent       `json:"scheduledEvents,omitempty"`
	AppliedSetbacks    []models.AppliedSetback       `json:"appliedSetbacks,omitempty"`
	SetbackDefinitions []models.SetbackDefinition    `json:"setbackDefinitions,omitempty"`
	Ranks              []models.Rank                 `json:"ranks,omitempty"`
	RewardTypes        []models.RewardTypeDefinition `json:"rewardTypes,omitempty"`
	Settings           map[string]string             `json:"settings,omitempty"`
}

// Removed maps collection name to the ids deleted since the cursor.
type Removed map[string][]string

// DeltaResponse is the delta endpoint's envelope. NewSyncTimestamp is an
// opaque cursor the client echoes back on its next poll.
type DeltaResponse struct {
	Updates          Delta   `json:"updates"`
	Removed          Removed `json:"removed,omitempty"`
	NewSyncTimestamp string  `json:"newSyncTimestamp"`
}

// Aggregate is the client-side cache of every entity collection.
type Aggregate struct {
	Users              []models.User
	Quests             []models.Quest
	QuestCompletions   []models.QuestCompletion
	Markets            []models.Market
	Guilds             []models.Guild
	ScheduledEvents    []models.ScheduledEvent
	AppliedSetbacks    []models.AppliedSetback
	SetbackDefinitions []models.SetbackDefinition
	Ranks              []models.Rank
	RewardTypes        []models.RewardTypeDefinition
	Settings           map[string]string

	// AllTags is the deduplicated union of every quest's tags, recomputed
	// whenever the quest collection changes.
	AllTags []string
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)
