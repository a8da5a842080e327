package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
	"github.com/mckayc/task-donegeon-sub006/internal/testutil"
)

type questFixture struct {
	questRepo      *repository.SQLiteQuestRepository
	completionRepo *repository.SQLiteQuestCompletionRepository
	userRepo       *repository.SQLiteUserRepository
	rewardTypeRepo *repository.SQLiteRewardTypeRepository
	service        *services.QuestService
	notifications  *int
}

func newQuestFixture(t *testing.T) questFixture {
	t.Helper()
	db := testutil.NewTestDatabase(t)

	questRepo := repository.NewQuestRepository(db)
	completionRepo := repository.NewQuestCompletionRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewScheduledEventRepository(db)
	rewardTypeRepo := repository.NewRewardTypeRepository(db)

	notifications := 0
	notifier := services.NotifierFunc(func() { notifications++ })

	return questFixture{
		questRepo:      questRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		rewardTypeRepo: rewardTypeRepo,
		service:        services.NewQuestService(questRepo, completionRepo, userRepo, eventRepo, rewardTypeRepo, notifier),
		notifications:  &notifications,
	}
}

func (fixture questFixture) createUser(t *testing.T) models.User {
	t.Helper()
	user, err := fixture.userRepo.Create(context.Background(), models.User{
		GameName: "Explorer",
		Role:     models.RoleExplorer,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func TestCompleteApproveLifecycle(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()
	user := fixture.createUser(t)

	if _, err := fixture.rewardTypeRepo.Create(ctx, models.RewardTypeDefinition{
		ID: "gold", Name: "Gold", Category: models.RewardCategoryCurrency,
	}); err != nil {
		t.Fatalf("creating reward type: %v", err)
	}
	if _, err := fixture.rewardTypeRepo.Create(ctx, models.RewardTypeDefinition{
		ID: "xp", Name: "Experience", Category: models.RewardCategoryXP,
	}); err != nil {
		t.Fatalf("creating reward type: %v", err)
	}

	quest, err := fixture.questRepo.Create(ctx, models.Quest{
		Title:    "Make the bed",
		Type:     models.QuestTypeDuty,
		RRule:    "FREQ=DAILY",
		IsActive: true,
		Rewards: []models.RewardItem{
			{RewardTypeID: "gold", Amount: 5},
			{RewardTypeID: "xp", Amount: 20},
		},
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}

	completion, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), "done before breakfast")
	if err != nil {
		t.Fatalf("completing quest: %v", err)
	}
	if completion.Status != models.CompletionStatusPending {
		t.Errorf("expected pending completion, got '%s'", completion.Status)
	}

	// The pending completion consumes today's slot.
	if _, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), ""); !errors.Is(err, services.ErrQuestNotAvailable) {
		t.Errorf("expected ErrQuestNotAvailable on second completion, got %v", err)
	}

	if err := fixture.service.ApproveCompletion(ctx, completion.ID, "admin-1"); err != nil {
		t.Fatalf("approving completion: %v", err)
	}

	// Approving twice is rejected.
	if err := fixture.service.ApproveCompletion(ctx, completion.ID, "admin-1"); !errors.Is(err, services.ErrCompletionNotPending) {
		t.Errorf("expected ErrCompletionNotPending on re-approval, got %v", err)
	}

	// Rewards landed in the right balances.
	rewarded, err := fixture.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if rewarded.PersonalPurse["gold"] != 5 {
		t.Errorf("expected 5 gold, got %d", rewarded.PersonalPurse["gold"])
	}
	if rewarded.PersonalExperience["xp"] != 20 {
		t.Errorf("expected 20 xp, got %d", rewarded.PersonalExperience["xp"])
	}

	// The duty stays consumed for the rest of the day.
	if _, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), ""); !errors.Is(err, services.ErrQuestNotAvailable) {
		t.Errorf("expected ErrQuestNotAvailable after approval, got %v", err)
	}

	if *fixture.notifications < 2 {
		t.Errorf("expected sync notifications for complete and approve, got %d", *fixture.notifications)
	}
}

func TestRejectionHandsSlotBack(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()
	user := fixture.createUser(t)

	quest, err := fixture.questRepo.Create(ctx, models.Quest{
		Title:    "Wash the car",
		Type:     models.QuestTypeVenture,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}

	completion, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), "")
	if err != nil {
		t.Fatalf("completing quest: %v", err)
	}

	if err := fixture.service.RejectCompletion(ctx, completion.ID, "admin-1"); err != nil {
		t.Fatalf("rejecting completion: %v", err)
	}

	// The rejection opens the unlimited-once venture back up.
	if _, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), "second try"); err != nil {
		t.Errorf("expected quest available after rejection, got %v", err)
	}

	// Rejected completions do not grant rewards or touch balances.
	unrewarded, err := fixture.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if len(unrewarded.PersonalPurse) != 0 {
		t.Errorf("expected empty purse after rejection, got %v", unrewarded.PersonalPurse)
	}
}

func TestVisibilityGate(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()
	user := fixture.createUser(t)

	quest, err := fixture.questRepo.Create(ctx, models.Quest{
		Title:    "Guild feast prep",
		Type:     models.QuestTypeVenture,
		GuildID:  "g1",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}

	if _, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.PersonalMode(), ""); !errors.Is(err, services.ErrQuestNotVisible) {
		t.Errorf("expected ErrQuestNotVisible in personal mode, got %v", err)
	}

	if _, err := fixture.service.CompleteQuest(ctx, quest.ID, user.ID, models.GuildMode("g1"), ""); err != nil {
		t.Errorf("expected guild-mode completion to succeed, got %v", err)
	}
}

func TestClaimLifecycle(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()

	slots := 2
	quest, err := fixture.questRepo.Create(ctx, models.Quest{
		Title:             "Rake leaves",
		Type:              models.QuestTypeVenture,
		IsActive:          true,
		AvailabilityCount: &slots,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}

	if _, err := fixture.service.ClaimQuest(ctx, quest.ID, "u1"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := fixture.service.ClaimQuest(ctx, quest.ID, "u1"); !errors.Is(err, services.ErrAlreadyClaimed) {
		t.Errorf("expected ErrAlreadyClaimed, got %v", err)
	}
	if _, err := fixture.service.ClaimQuest(ctx, quest.ID, "u2"); err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if _, err := fixture.service.ClaimQuest(ctx, quest.ID, "u3"); !errors.Is(err, services.ErrClaimSlotsFull) {
		t.Errorf("expected ErrClaimSlotsFull, got %v", err)
	}

	released, err := fixture.service.ReleaseQuest(ctx, quest.ID, "u1")
	if err != nil {
		t.Fatalf("releasing claim: %v", err)
	}
	if len(released.ClaimedByUserIDs) != 1 || released.ClaimedByUserIDs[0] != "u2" {
		t.Errorf("expected only u2 left holding a claim, got %v", released.ClaimedByUserIDs)
	}

	if _, err := fixture.service.ReleaseQuest(ctx, quest.ID, "u1"); !errors.Is(err, services.ErrNotClaimed) {
		t.Errorf("expected ErrNotClaimed on double release, got %v", err)
	}

	// The freed slot can be claimed again.
	if _, err := fixture.service.ClaimQuest(ctx, quest.ID, "u3"); err != nil {
		t.Errorf("expected freed slot to be claimable, got %v", err)
	}
}

func TestClaimRequiresSlottedVenture(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()

	unlimited, err := fixture.questRepo.Create(ctx, models.Quest{
		Title: "No slots", Type: models.QuestTypeVenture, IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}
	if _, err := fixture.service.ClaimQuest(ctx, unlimited.ID, "u1"); !errors.Is(err, services.ErrNotClaimable) {
		t.Errorf("expected ErrNotClaimable for unlimited-once venture, got %v", err)
	}

	slots := 2
	duty, err := fixture.questRepo.Create(ctx, models.Quest{
		Title: "A duty", Type: models.QuestTypeDuty, RRule: "FREQ=DAILY",
		IsActive: true, AvailabilityCount: &slots,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}
	if _, err := fixture.service.ClaimQuest(ctx, duty.ID, "u1"); !errors.Is(err, services.ErrNotClaimable) {
		t.Errorf("expected ErrNotClaimable for duty, got %v", err)
	}
}

func TestSetTodo(t *testing.T) {
	fixture := newQuestFixture(t)
	ctx := context.Background()

	quest, err := fixture.questRepo.Create(ctx, models.Quest{
		Title: "Paint fence", Type: models.QuestTypeVenture, IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}

	flagged, err := fixture.service.SetTodo(ctx, quest.ID, "u1", true)
	if err != nil {
		t.Fatalf("flagging todo: %v", err)
	}
	if len(flagged.TodoUserIDs) != 1 {
		t.Errorf("expected todo flag set, got %v", flagged.TodoUserIDs)
	}

	// Setting the same flag again is a no-op.
	again, err := fixture.service.SetTodo(ctx, quest.ID, "u1", true)
	if err != nil {
		t.Fatalf("re-flagging todo: %v", err)
	}
	if len(again.TodoUserIDs) != 1 {
		t.Errorf("expected single todo entry, got %v", again.TodoUserIDs)
	}

	cleared, err := fixture.service.SetTodo(ctx, quest.ID, "u1", false)
	if err != nil {
		t.Fatalf("clearing todo: %v", err)
	}
	if len(cleared.TodoUserIDs) != 0 {
		t.Errorf("expected todo flag cleared, got %v", cleared.TodoUserIDs)
	}

	duty, err := fixture.questRepo.Create(ctx, models.Quest{
		Title: "Dishes", Type: models.QuestTypeDuty, RRule: "FREQ=DAILY", IsActive: true,
	})
	if err != nil {
		t.Fatalf("creating quest: %v", err)
	}
	if _, err := fixture.service.SetTodo(ctx, duty.ID, "u1", true); !errors.Is(err, services.ErrTodoVentureOnly) {
		t.Errorf("expected ErrTodoVentureOnly, got %v", err)
	}
}
