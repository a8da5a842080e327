package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
)

var (
	ErrQuestNotVisible      = errors.New("quest is not visible in this mode")
	ErrQuestNotAvailable    = errors.New("quest is not available to complete")
	ErrCompletionNotPending = errors.New("completion is not pending")
	ErrNotClaimable         = errors.New("quest does not use claim slots")
	ErrAlreadyClaimed       = errors.New("quest already claimed by this user")
	ErrClaimSlotsFull       = errors.New("all claim slots are taken")
	ErrNotClaimed           = errors.New("quest is not claimed by this user")
	ErrTodoVentureOnly      = errors.New("only ventures can be flagged to-do")
)

// Notifier wakes sync clients after a mutation. The SSE broadcaster
// implements it; tests pass a no-op.
type Notifier interface {
	Notify()
}

type NotifierFunc func()

func (fn NotifierFunc) Notify() { fn() }

type QuestService struct {
	questRepo      repository.QuestRepository
	completionRepo repository.QuestCompletionRepository
	userRepo       repository.UserRepository
	eventRepo      repository.ScheduledEventRepository
	rewardTypeRepo repository.RewardTypeRepository
	notifier       Notifier
}

func NewQuestService(
	questRepo repository.QuestRepository,
	completionRepo repository.QuestCompletionRepository,
	userRepo repository.UserRepository,
	eventRepo repository.ScheduledEventRepository,
	rewardTypeRepo repository.RewardTypeRepository,
	notifier Notifier,
) *QuestService {
	if notifier == nil {
		notifier = NotifierFunc(func() {})
	}
	return &QuestService{
		questRepo:      questRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		rewardTypeRepo: rewardTypeRepo,
		notifier:       notifier,
	}
}

// CompleteQuest records a pending completion for a user, enforcing the
// visibility and availability rules first. Approval happens separately.
func (service *QuestService) CompleteQuest(ctx context.Context, questID, userID string, mode models.AppMode, note string) (models.QuestCompletion, error) {
	quest, err := service.questRepo.FindByID(ctx, questID)
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("finding quest: %w", err)
	}

	if !rules.IsQuestVisibleToUserInMode(quest, userID, mode) {
		return models.QuestCompletion{}, ErrQuestNotVisible
	}

	userCompletions, err := service.completionRepo.FindAll(ctx, repository.CompletionFilter{
		QuestID: &questID,
		UserID:  &userID,
		GuildID: &quest.GuildID,
	})
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("finding user completions: %w", err)
	}

	events, err := service.eventRepo.FindAll(ctx)
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("finding scheduled events: %w", err)
	}

	if !rules.IsQuestAvailableForUser(quest, userCompletions, time.Now(), events, mode) {
		return models.QuestCompletion{}, ErrQuestNotAvailable
	}

	completion, err := service.completionRepo.Create(ctx, models.QuestCompletion{
		QuestID: questID,
		UserID:  userID,
		GuildID: quest.GuildID,
		Status:  models.CompletionStatusPending,
		Note:    note,
	})
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("creating completion: %w", err)
	}

	service.notifier.Notify()
	return completion, nil
}

// ApproveCompletion moves a pending completion to approved and credits the
// quest's rewards to the user.
func (service *QuestService) ApproveCompletion(ctx context.Context, completionID, approverID string) error {
	completion, err := service.completionRepo.FindByID(ctx, completionID)
	if err != nil {
		return fmt.Errorf("finding completion: %w", err)
	}
	if completion.Status != models.CompletionStatusPending {
		return ErrCompletionNotPending
	}

	if err := service.completionRepo.UpdateStatus(ctx, completionID, models.CompletionStatusApproved, approverID); err != nil {
		return fmt.Errorf("approving completion: %w", err)
	}

	if err := service.grantRewards(ctx, completion); err != nil {
		return fmt.Errorf("granting rewards: %w", err)
	}

	service.notifier.Notify()
	return nil
}

// RejectCompletion moves a pending completion to rejected, handing its
// availability slot back.
func (service *QuestService) RejectCompletion(ctx context.Context, completionID, rejecterID string) error {
	completion, err := service.completionRepo.FindByID(ctx, completionID)
	if err != nil {
		return fmt.Errorf("finding completion: %w", err)
	}
	if completion.Status != models.CompletionStatusPending {
		return ErrCompletionNotPending
	}

	if err := service.completionRepo.UpdateStatus(ctx, completionID, models.CompletionStatusRejected, rejecterID); err != nil {
		return fmt.Errorf("rejecting completion: %w", err)
	}

	service.notifier.Notify()
	return nil
}

func (service *QuestService) grantRewards(ctx context.Context, completion models.QuestCompletion) error {
	quest, err := service.questRepo.FindByID(ctx, completion.QuestID)
	if err != nil {
		return fmt.Errorf("finding quest for rewards: %w", err)
	}
	if len(quest.Rewards) == 0 {
		return nil
	}

	user, err := service.userRepo.FindByID(ctx, completion.UserID)
	if err != nil {
		return fmt.Errorf("finding user for rewards: %w", err)
	}

	rewardTypes, err := service.rewardTypeRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("finding reward types: %w", err)
	}
	categories := make(map[string]models.RewardCategory, len(rewardTypes))
	for _, rewardType := range rewardTypes {
		categories[rewardType.ID] = rewardType.Category
	}

	if user.PersonalPurse == nil {
		user.PersonalPurse = map[string]int{}
	}
	if user.PersonalExperience == nil {
		user.PersonalExperience = map[string]int{}
	}
	for _, reward := range quest.Rewards {
		if categories[reward.RewardTypeID] == models.RewardCategoryXP {
			user.PersonalExperience[reward.RewardTypeID] += reward.Amount
		} else {
			user.PersonalPurse[reward.RewardTypeID] += reward.Amount
		}
	}

	if err := service.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("updating user balances: %w", err)
	}
	return nil
}

// ClaimQuest takes one claim slot on a multi-slot venture.
func (service *QuestService) ClaimQuest(ctx context.Context, questID, userID string) (models.Quest, error) {
	quest, err := service.questRepo.FindByID(ctx, questID)
	if err != nil {
		return models.Quest{}, fmt.Errorf("finding quest: %w", err)
	}

	if quest.Type != models.QuestTypeVenture || quest.AvailabilityCount == nil || *quest.AvailabilityCount <= 0 {
		return models.Quest{}, ErrNotClaimable
	}
	if slices.Contains(quest.ClaimedByUserIDs, userID) {
		return models.Quest{}, ErrAlreadyClaimed
	}
	if len(quest.ClaimedByUserIDs) >= *quest.AvailabilityCount {
		return models.Quest{}, ErrClaimSlotsFull
	}

	quest.ClaimedByUserIDs = append(quest.ClaimedByUserIDs, userID)
	if err := service.questRepo.Update(ctx, quest); err != nil {
		return models.Quest{}, fmt.Errorf("updating quest claims: %w", err)
	}

	service.notifier.Notify()
	return quest, nil
}

// ReleaseQuest gives a claim slot back.
func (service *QuestService) ReleaseQuest(ctx context.Context, questID, userID string) (models.Quest, error) {
	quest, err := service.questRepo.FindByID(ctx, questID)
	if err != nil {
		return models.Quest{}, fmt.Errorf("finding quest: %w", err)
	}

	index := slices.Index(quest.ClaimedByUserIDs, userID)
	if index < 0 {
		return models.Quest{}, ErrNotClaimed
	}

	quest.ClaimedByUserIDs = slices.Delete(quest.ClaimedByUserIDs, index, index+1)
	if err := service.questRepo.Update(ctx, quest); err != nil {
		return models.Quest{}, fmt.Errorf("updating quest claims: %w", err)
	}

	service.notifier.Notify()
	return quest, nil
}

// SetTodo flags or unflags a venture on the user's to-do list.
func (service *QuestService) SetTodo(ctx context.Context, questID, userID string, todo bool) (models.Quest, error) {
	quest, err := service.questRepo.FindByID(ctx, questID)
	if err != nil {
		return models.Quest{}, fmt.Errorf("finding quest: %w", err)
	}

	if quest.Type != models.QuestTypeVenture {
		return models.Quest{}, ErrTodoVentureOnly
	}

	index := slices.Index(quest.TodoUserIDs, userID)
	switch {
	case todo && index < 0:
		quest.TodoUserIDs = append(quest.TodoUserIDs, userID)
	case !todo && index >= 0:
		quest.TodoUserIDs = slices.Delete(quest.TodoUserIDs, index, index+1)
	default:
		return quest, nil
	}

	if err := service.questRepo.Update(ctx, quest); err != nil {
		return models.Quest{}, fmt.Errorf("updating quest todo flags: %w", err)
	}

	service.notifier.Notify()
	return quest, nil
}
