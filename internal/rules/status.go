package rules

import (
	"slices"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type QuestStatusCode string

const (
	StatusPending      QuestStatusCode = "PENDING"
	StatusCompleted    QuestStatusCode = "COMPLETED"
	StatusAvailable    QuestStatusCode = "AVAILABLE"
	StatusClaimable    QuestStatusCode = "CLAIMABLE"
	StatusReleaseable  QuestStatusCode = "RELEASEABLE"
	StatusFullyClaimed QuestStatusCode = "FULLY_CLAIMED"
)

type QuestUserStatus struct {
	Status           QuestStatusCode `json:"status"`
	ButtonText       string          `json:"buttonText"`
	IsActionDisabled bool            `json:"isActionDisabled"`
}

// GetQuestUserStatus resolves the action state for one user on one quest on
// one calendar day. It is a decision table over completion history: first
// matching row wins, nothing is persisted.
func GetQuestUserStatus(quest models.Quest, user models.User, allCompletions []models.QuestCompletion, date time.Time) QuestUserStatus {
	dateKey := ToYMD(date)

	var pendingToday, approvedToday bool
	approvedEver := 0
	for _, completion := range allCompletions {
		if completion.QuestID != quest.ID || completion.UserID != user.ID {
			continue
		}
		switch completion.Status {
		case models.CompletionStatusPending:
			if ToYMD(completion.CompletedAt) == dateKey {
				pendingToday = true
			}
		case models.CompletionStatusApproved:
			approvedEver++
			if ToYMD(completion.CompletedAt) == dateKey {
				approvedToday = true
			}
		}
	}

	switch {
	case pendingToday:
		return QuestUserStatus{Status: StatusPending, ButtonText: "Awaiting Approval", IsActionDisabled: true}
	case quest.Type == models.QuestTypeDuty && approvedToday:
		return QuestUserStatus{Status: StatusCompleted, ButtonText: "Completed", IsActionDisabled: true}
	case quest.AvailabilityCount == nil && approvedEver > 0:
		return QuestUserStatus{Status: StatusCompleted, ButtonText: "Completed", IsActionDisabled: true}
	case quest.AvailabilityCount != nil && approvedEver >= *quest.AvailabilityCount:
		return QuestUserStatus{Status: StatusCompleted, ButtonText: "Completed", IsActionDisabled: true}
	}

	if quest.Type == models.QuestTypeVenture && quest.AvailabilityCount != nil && *quest.AvailabilityCount > 0 {
		switch {
		case slices.Contains(quest.ClaimedByUserIDs, user.ID):
			return QuestUserStatus{Status: StatusReleaseable, ButtonText: "Complete"}
		case len(quest.ClaimedByUserIDs) >= *quest.AvailabilityCount:
			return QuestUserStatus{Status: StatusFullyClaimed, ButtonText: "Fully Claimed", IsActionDisabled: true}
		default:
			return QuestUserStatus{Status: StatusClaimable, ButtonText: "Claim"}
		}
	}

	return QuestUserStatus{Status: StatusAvailable, ButtonText: "Complete"}
}
