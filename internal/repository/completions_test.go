package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/testutil"
)

func TestQuestCompletionRepository_CreateDefaults(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	completionRepo := repository.NewQuestCompletionRepository(db)
	ctx := context.Background()

	created, err := completionRepo.Create(ctx, models.QuestCompletion{
		QuestID: "q1",
		UserID:  "u1",
	})
	if err != nil {
		t.Fatalf("creating completion: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if created.Status != models.CompletionStatusPending {
		t.Errorf("expected pending status default, got '%s'", created.Status)
	}
	if created.CompletedAt.IsZero() {
		t.Error("expected completed_at to default to now")
	}
}

func TestQuestCompletionRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	completionRepo := repository.NewQuestCompletionRepository(db)
	ctx := context.Background()

	mustCreate := func(completion models.QuestCompletion) {
		t.Helper()
		if _, err := completionRepo.Create(ctx, completion); err != nil {
			t.Fatalf("creating completion: %v", err)
		}
	}

	mustCreate(models.QuestCompletion{QuestID: "q1", UserID: "u1"})
	mustCreate(models.QuestCompletion{QuestID: "q1", UserID: "u2", GuildID: "g1"})
	mustCreate(models.QuestCompletion{QuestID: "q2", UserID: "u1", Status: models.CompletionStatusApproved})

	userID := "u1"
	byUser, err := completionRepo.FindAll(ctx, repository.CompletionFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("finding by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("expected 2 completions for u1, got %d", len(byUser))
	}

	questID := "q1"
	guildID := ""
	scoped, err := completionRepo.FindAll(ctx, repository.CompletionFilter{
		QuestID: &questID,
		UserID:  &userID,
		GuildID: &guildID,
	})
	if err != nil {
		t.Fatalf("finding scoped: %v", err)
	}
	if len(scoped) != 1 {
		t.Errorf("expected 1 personal-scope completion, got %d", len(scoped))
	}

	pending := models.CompletionStatusPending
	pendingOnly, err := completionRepo.FindAll(ctx, repository.CompletionFilter{Status: &pending})
	if err != nil {
		t.Fatalf("finding pending: %v", err)
	}
	if len(pendingOnly) != 2 {
		t.Errorf("expected 2 pending completions, got %d", len(pendingOnly))
	}
}

func TestQuestCompletionRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	completionRepo := repository.NewQuestCompletionRepository(db)
	ctx := context.Background()

	created, err := completionRepo.Create(ctx, models.QuestCompletion{QuestID: "q1", UserID: "u1"})
	if err != nil {
		t.Fatalf("creating completion: %v", err)
	}

	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)

	if err := completionRepo.UpdateStatus(ctx, created.ID, models.CompletionStatusApproved, "admin-1"); err != nil {
		t.Fatalf("approving completion: %v", err)
	}

	found, err := completionRepo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding completion: %v", err)
	}
	if found.Status != models.CompletionStatusApproved {
		t.Errorf("expected approved, got '%s'", found.Status)
	}
	if found.ActedOnBy != "admin-1" {
		t.Errorf("expected acted_on_by 'admin-1', got '%s'", found.ActedOnBy)
	}

	changed, err := completionRepo.FindUpdatedSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("finding updated completions: %v", err)
	}
	if len(changed) != 1 {
		t.Errorf("expected the status change to surface in updated-since, got %d", len(changed))
	}
}
