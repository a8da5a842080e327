package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/sync"
)

// SyncService assembles delta payloads for polling clients. An empty
// cursor yields the whole aggregate; otherwise only rows updated after the
// cursor plus the matching tombstones are returned. The new cursor is
// stamped before the queries run, so changes racing with a poll are picked
// up again next time rather than lost.
type SyncService struct {
	userRepo           repository.UserRepository
	questRepo          repository.QuestRepository
	completionRepo     repository.QuestCompletionRepository
	marketRepo         repository.MarketRepository
	guildRepo          repository.GuildRepository
	eventRepo          repository.ScheduledEventRepository
	appliedSetbackRepo repository.AppliedSetbackRepository
	setbackDefRepo     repository.SetbackDefinitionRepository
	rankRepo           repository.RankRepository
	rewardTypeRepo     repository.RewardTypeRepository
	settingsRepo       repository.SettingsRepository
	tombstoneRepo      repository.TombstoneRepository
}

func NewSyncService(
	userRepo repository.UserRepository,
	questRepo repository.QuestRepository,
	completionRepo repository.QuestCompletionRepository,
	marketRepo repository.MarketRepository,
	guildRepo repository.GuildRepository,
	eventRepo repository.ScheduledEventRepository,
	appliedSetbackRepo repository.AppliedSetbackRepository,
	setbackDefRepo repository.SetbackDefinitionRepository,
	rankRepo repository.RankRepository,
	rewardTypeRepo repository.RewardTypeRepository,
	settingsRepo repository.SettingsRepository,
	tombstoneRepo repository.TombstoneRepository,
) *SyncService {
	return &SyncService{
		userRepo:           userRepo,
		questRepo:          questRepo,
		completionRepo:     completionRepo,
		marketRepo:         marketRepo,
		guildRepo:          guildRepo,
		eventRepo:          eventRepo,
		appliedSetbackRepo: appliedSetbackRepo,
		setbackDefRepo:     setbackDefRepo,
		rankRepo:           rankRepo,
		rewardTypeRepo:     rewardTypeRepo,
		settingsRepo:       settingsRepo,
		tombstoneRepo:      tombstoneRepo,
	}
}

const cursorLayout = time.RFC3339Nano

func (service *SyncService) Delta(ctx context.Context, cursor string) (sync.DeltaResponse, error) {
	newCursor := time.Now().UTC().Format(cursorLayout)

	if cursor == "" {
		delta, err := service.fullAggregate(ctx)
		if err != nil {
			return sync.DeltaResponse{}, err
		}
		return sync.DeltaResponse{Updates: delta, NewSyncTimestamp: newCursor}, nil
	}

	since, err := time.Parse(cursorLayout, cursor)
	if err != nil {
		// Unparseable cursors fall back to a full resend rather than an error.
		delta, err := service.fullAggregate(ctx)
		if err != nil {
			return sync.DeltaResponse{}, err
		}
		return sync.DeltaResponse{Updates: delta, NewSyncTimestamp: newCursor}, nil
	}

	delta, err := service.updatesSince(ctx, since)
	if err != nil {
		return sync.DeltaResponse{}, err
	}

	removed, err := service.tombstoneRepo.FindSince(ctx, since)
	if err != nil {
		return sync.DeltaResponse{}, fmt.Errorf("collecting removals: %w", err)
	}

	return sync.DeltaResponse{Updates: delta, Removed: removed, NewSyncTimestamp: newCursor}, nil
}

func (service *SyncService) fullAggregate(ctx context.Context) (sync.Delta, error) {
	var delta sync.Delta
	var err error

	if delta.Users, err = service.userRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading users: %w", err)
	}
	if delta.Quests, err = service.questRepo.FindAll(ctx, repository.QuestFilter{}); err != nil {
		return sync.Delta{}, fmt.Errorf("loading quests: %w", err)
	}
	if delta.QuestCompletions, err = service.completionRepo.FindAll(ctx, repository.CompletionFilter{}); err != nil {
		return sync.Delta{}, fmt.Errorf("loading completions: %w", err)
	}
	if delta.Markets, err = service.marketRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading markets: %w", err)
	}
	if delta.Guilds, err = service.guildRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading guilds: %w", err)
	}
	if delta.ScheduledEvents, err = service.eventRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading scheduled events: %w", err)
	}
	if delta.AppliedSetbacks, err = service.appliedSetbackRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading applied setbacks: %w", err)
	}
	if delta.SetbackDefinitions, err = service.setbackDefRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading setback definitions: %w", err)
	}
	if delta.Ranks, err = service.rankRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading ranks: %w", err)
	}
	if delta.RewardTypes, err = service.rewardTypeRepo.FindAll(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading reward types: %w", err)
	}
	if delta.Settings, err = service.settingsRepo.All(ctx); err != nil {
		return sync.Delta{}, fmt.Errorf("loading settings: %w", err)
	}
	return delta, nil
}

func (service *SyncService) updatesSince(ctx context.Context, since time.Time) (sync.Delta, error) {
	var delta sync.Delta
	var err error

	if delta.Users, err = service.userRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed users: %w", err)
	}
	if delta.Quests, err = service.questRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed quests: %w", err)
	}
	if delta.QuestCompletions, err = service.completionRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed completions: %w", err)
	}
	if delta.Markets, err = service.marketRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed markets: %w", err)
	}
	if delta.Guilds, err = service.guildRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed guilds: %w", err)
	}
	if delta.ScheduledEvents, err = service.eventRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed scheduled events: %w", err)
	}
	if delta.AppliedSetbacks, err = service.appliedSetbackRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed applied setbacks: %w", err)
	}
	if delta.SetbackDefinitions, err = service.setbackDefRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed setback definitions: %w", err)
	}
	if delta.Ranks, err = service.rankRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed ranks: %w", err)
	}
	if delta.RewardTypes, err = service.rewardTypeRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed reward types: %w", err)
	}
	if delta.Settings, err = service.settingsRepo.FindUpdatedSince(ctx, since); err != nil {
		return sync.Delta{}, fmt.Errorf("loading changed settings: %w", err)
	}
	return delta, nil
}
