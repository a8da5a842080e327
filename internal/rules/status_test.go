package rules

import (
	"testing"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGetQuestUserStatus(t *testing.T) {
	today := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	user := models.User{ID: "u1"}

	completionFor := func(questID string, status models.CompletionStatus, at time.Time) models.QuestCompletion {
		return models.QuestCompletion{QuestID: questID, UserID: "u1", Status: status, CompletedAt: at}
	}

	tests := []struct {
		name        string
		quest       models.Quest
		completions []models.QuestCompletion
		wantStatus  QuestStatusCode
		wantText    string
		wantLocked  bool
	}{
		{
			name:        "pending today wins over everything",
			quest:       models.Quest{ID: "q1", Type: models.QuestTypeVenture, AvailabilityCount: intPtr(3), ClaimedByUserIDs: []string{"u1"}},
			completions: []models.QuestCompletion{completionFor("q1", models.CompletionStatusPending, today)},
			wantStatus:  StatusPending,
			wantText:    "Awaiting Approval",
			wantLocked:  true,
		},
		{
			name:        "duty approved today is completed",
			quest:       models.Quest{ID: "q1", Type: models.QuestTypeDuty, AvailabilityCount: intPtr(100)},
			completions: []models.QuestCompletion{completionFor("q1", models.CompletionStatusApproved, today)},
			wantStatus:  StatusCompleted,
			wantText:    "Completed",
			wantLocked:  true,
		},
		{
			name:        "duty approved yesterday resets",
			quest:       models.Quest{ID: "q1", Type: models.QuestTypeDuty, AvailabilityCount: intPtr(100)},
			completions: []models.QuestCompletion{completionFor("q1", models.CompletionStatusApproved, yesterday)},
			wantStatus:  StatusAvailable,
			wantText:    "Complete",
		},
		{
			name:        "unlimited-once venture completed forever",
			quest:       models.Quest{ID: "q1", Type: models.QuestTypeVenture},
			completions: []models.QuestCompletion{completionFor("q1", models.CompletionStatusApproved, yesterday)},
			wantStatus:  StatusCompleted,
			wantText:    "Completed",
			wantLocked:  true,
		},
		{
			name:  "counted venture below its cap keeps going",
			quest: models.Quest{ID: "q1", Type: models.QuestTypeVenture, AvailabilityCount: intPtr(3), ClaimedByUserIDs: []string{"u1"}},
			completions: []models.QuestCompletion{
				completionFor("q1", models.CompletionStatusApproved, yesterday),
			},
			wantStatus: StatusReleaseable,
			wantText:   "Complete",
		},
		{
			name:  "counted venture at its cap is completed",
			quest: models.Quest{ID: "q1", Type: models.QuestTypeVenture, AvailabilityCount: intPtr(2)},
			completions: []models.QuestCompletion{
				completionFor("q1", models.CompletionStatusApproved, yesterday),
				completionFor("q1", models.CompletionStatusApproved, yesterday),
			},
			wantStatus: StatusCompleted,
			wantText:   "Completed",
			wantLocked: true,
		},
		{
			name:       "unclaimed slot venture is claimable",
			quest:      models.Quest{ID: "q1", Type: models.QuestTypeVenture, AvailabilityCount: intPtr(2), ClaimedByUserIDs: []string{"u2"}},
			wantStatus: StatusClaimable,
			wantText:   "Claim",
		},
		{
			name:       "all slots taken by others",
			quest:      models.Quest{ID: "q1", Type: models.QuestTypeVenture, AvailabilityCount: intPtr(1), ClaimedByUserIDs: []string{"u2"}},
			wantStatus: StatusFullyClaimed,
			wantText:   "Fully Claimed",
			wantLocked: true,
		},
		{
			name:       "rejected completion leaves quest available",
			quest:      models.Quest{ID: "q1", Type: models.QuestTypeDuty},
			completions: []models.QuestCompletion{completionFor("q1", models.CompletionStatusRejected, today)},
			wantStatus: StatusAvailable,
			wantText:   "Complete",
		},
		{
			name:  "other quests and users are ignored",
			quest: models.Quest{ID: "q1", Type: models.QuestTypeDuty},
			completions: []models.QuestCompletion{
				completionFor("q2", models.CompletionStatusPending, today),
				{QuestID: "q1", UserID: "u2", Status: models.CompletionStatusPending, CompletedAt: today},
			},
			wantStatus: StatusAvailable,
			wantText:   "Complete",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := GetQuestUserStatus(test.quest, user, test.completions, today)
			assert.Equal(t, test.wantStatus, got.Status)
			assert.Equal(t, test.wantText, got.ButtonText)
			assert.Equal(t, test.wantLocked, got.IsActionDisabled)
		})
	}
}
