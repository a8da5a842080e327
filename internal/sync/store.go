package sync

import (
	stdsync "sync"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// Store is the single shared cache of domain data on the client side. All
// mutation flows through its methods; State hands out copies, so callers
// never mutate the cache in place.
type Store struct {
	mu stdsync.RWMutex

	state          Aggregate
	isDataLoaded   bool
	isAiConfigured bool
	syncStatus     Status
	syncError      string
}

func NewStore() *Store {
	return &Store{
		state:      Aggregate{Settings: map[string]string{}},
		syncStatus: StatusIdle,
	}
}

// ApplyFull replaces every collection with the initial payload and marks
// the store loaded.
func (store *Store) ApplyFull(delta Delta) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.state = Aggregate{
		Users:              delta.Users,
		Quests:             delta.Quests,
		QuestCompletions:   delta.QuestCompletions,
		Markets:            delta.Markets,
		Guilds:             delta.Guilds,
		ScheduledEvents:    delta.ScheduledEvents,
		AppliedSetbacks:    delta.AppliedSetbacks,
		SetbackDefinitions: delta.SetbackDefinitions,
		Ranks:              delta.Ranks,
		RewardTypes:        delta.RewardTypes,
		Settings:           mergeSettings(map[string]string{}, delta.Settings),
	}
	store.state.AllTags = collectTags(store.state.Quests)
	store.isDataLoaded = true
}

// ApplyDelta merges an incremental payload per id, last write wins. The
// users collection is owned by a separate collaborator and is deliberately
// never touched here, so two writers cannot fight over the same entity.
func (store *Store) ApplyDelta(delta Delta) {
	store.mu.Lock()
	defer store.mu.Unlock()

	state := &store.state
	state.Quests = mergeByID(state.Quests, delta.Quests, func(q models.Quest) string { return q.ID })
	state.QuestCompletions = mergeByID(state.QuestCompletions, delta.QuestCompletions, func(c models.QuestCompletion) string { return c.ID })
	state.Markets = mergeByID(state.Markets, delta.Markets, func(m models.Market) string { return m.ID })
	state.Guilds = mergeByID(state.Guilds, delta.Guilds, func(g models.Guild) string { return g.ID })
	state.ScheduledEvents = mergeByID(state.ScheduledEvents, delta.ScheduledEvents, func(e models.ScheduledEvent) string { return e.ID })
	state.AppliedSetbacks = mergeByID(state.AppliedSetbacks, delta.AppliedSetbacks, func(s models.AppliedSetback) string { return s.ID })
	state.SetbackDefinitions = mergeByID(state.SetbackDefinitions, delta.SetbackDefinitions, func(d models.SetbackDefinition) string { return d.ID })
	state.Ranks = mergeByID(state.Ranks, delta.Ranks, func(r models.Rank) string { return r.ID })
	state.RewardTypes = mergeByID(state.RewardTypes, delta.RewardTypes, func(t models.RewardTypeDefinition) string { return t.ID })
	state.Settings = mergeSettings(state.Settings, delta.Settings)

	if delta.Quests != nil {
		state.AllTags = collectTags(state.Quests)
	}
}

// Remove drops the listed ids from each named collection.
func (store *Store) Remove(removed Removed) {
	store.mu.Lock()
	defer store.mu.Unlock()

	state := &store.state
	state.Users = removeByID(state.Users, removed["users"], func(u models.User) string { return u.ID })
	state.Quests = removeByID(state.Quests, removed["quests"], func(q models.Quest) string { return q.ID })
	state.QuestCompletions = removeByID(state.QuestCompletions, removed["questCompletions"], func(c models.QuestCompletion) string { return c.ID })
	state.Markets = removeByID(state.Markets, removed["markets"], func(m models.Market) string { return m.ID })
	state.Guilds = removeByID(state.Guilds, removed["guilds"], func(g models.Guild) string { return g.ID })
	state.ScheduledEvents = removeByID(state.ScheduledEvents, removed["scheduledEvents"], func(e models.ScheduledEvent) string { return e.ID })
	state.AppliedSetbacks = removeByID(state.AppliedSetbacks, removed["appliedSetbacks"], func(s models.AppliedSetback) string { return s.ID })
	state.SetbackDefinitions = removeByID(state.SetbackDefinitions, removed["setbackDefinitions"], func(d models.SetbackDefinition) string { return d.ID })
	state.Ranks = removeByID(state.Ranks, removed["ranks"], func(r models.Rank) string { return r.ID })
	state.RewardTypes = removeByID(state.RewardTypes, removed["rewardTypes"], func(t models.RewardTypeDefinition) string { return t.ID })

	if len(removed["quests"]) > 0 {
		state.AllTags = collectTags(state.Quests)
	}
}

// State returns a snapshot with copied collection slices. Items themselves
// are shared; treat them as read-only.
func (store *Store) State() Aggregate {
	store.mu.RLock()
	defer store.mu.RUnlock()

	snapshot := store.state
	snapshot.Users = copySlice(store.state.Users)
	snapshot.Quests = copySlice(store.state.Quests)
	snapshot.QuestCompletions = copySlice(store.state.QuestCompletions)
	snapshot.Markets = copySlice(store.state.Markets)
	snapshot.Guilds = copySlice(store.state.Guilds)
	snapshot.ScheduledEvents = copySlice(store.state.ScheduledEvents)
	snapshot.AppliedSetbacks = copySlice(store.state.AppliedSetbacks)
	snapshot.SetbackDefinitions = copySlice(store.state.SetbackDefinitions)
	snapshot.Ranks = copySlice(store.state.Ranks)
	snapshot.RewardTypes = copySlice(store.state.RewardTypes)
	snapshot.AllTags = copySlice(store.state.AllTags)
	snapshot.Settings = mergeSettings(map[string]string{}, store.state.Settings)
	return snapshot
}

func (store *Store) IsDataLoaded() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.isDataLoaded
}

func (store *Store) SetAIConfigured(configured bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.isAiConfigured = configured
}

func (store *Store) IsAIConfigured() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.isAiConfigured
}

// SetSyncStatus records the outcome of a sync attempt. An error status
// keeps the last good cache; only the status and message change.
func (store *Store) SetSyncStatus(status Status, message string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.syncStatus = status
	store.syncError = message
}

func (store *Store) SyncStatus() (Status, string) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.syncStatus, store.syncError
}

func copySlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	copied := make([]T, len(items))
	copy(copied, items)
	return copied
}
