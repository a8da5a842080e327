package markets

import (
	"slices"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
)

type ClosedReason string

const (
	ReasonSetback     ClosedReason = "SETBACK"
	ReasonClosed      ClosedReason = "CLOSED"
	ReasonConditional ClosedReason = "CONDITIONAL"
)

type OpenStatus struct {
	IsOpen            bool         `json:"isOpen"`
	Reason            ClosedReason `json:"reason,omitempty"`
	Message           string       `json:"message,omitempty"`
	RedemptionQuestID string       `json:"redemptionQuestId,omitempty"`
}

// Data carries the collections the market resolver reads. Callers hand in
// whatever snapshot they hold; nothing here is mutated.
type Data struct {
	AppliedSetbacks    []models.AppliedSetback
	SetbackDefinitions []models.SetbackDefinition
	QuestCompletions   []models.QuestCompletion
	Ranks              []models.Rank
}

// IsMarketOpenForUser decides purchasing eligibility in two phases: an
// active CloseMarket setback always wins, then the market's own status is
// consulted. Conditional markets evaluate their condition list under
// all/any logic.
func IsMarketOpenForUser(market models.Market, user models.User, data Data, now time.Time) OpenStatus {
	if status, closed := setbackClosure(market, user, data, now); closed {
		return status
	}

	switch market.Status.Type {
	case models.MarketStatusOpen:
		return OpenStatus{IsOpen: true}
	case models.MarketStatusClosed:
		return OpenStatus{IsOpen: false, Reason: ReasonClosed, Message: "This market is currently closed."}
	case models.MarketStatusConditional:
		if conditionsSatisfied(market.Status, user, data, now) {
			return OpenStatus{IsOpen: true}
		}
		return OpenStatus{IsOpen: false, Reason: ReasonConditional, Message: "You do not meet the requirements to enter this market."}
	default:
		return OpenStatus{IsOpen: false, Reason: ReasonClosed, Message: "This market is currently closed."}
	}
}

func setbackClosure(market models.Market, user models.User, data Data, now time.Time) (OpenStatus, bool) {
	for _, applied := range data.AppliedSetbacks {
		if applied.UserID != user.ID || applied.Status != models.SetbackStatusActive {
			continue
		}
		if applied.ExpiresAt != nil && applied.ExpiresAt.Before(now) {
			continue
		}
		definition, ok := definitionByID(data.SetbackDefinitions, applied.SetbackID)
		if !ok {
			continue
		}
		for _, effect := range definition.Effects {
			if effect.Type != models.SetbackEffectCloseMarket {
				continue
			}
			if !slices.Contains(effect.MarketIDs, market.ID) {
				continue
			}
			return OpenStatus{
				IsOpen:            false,
				Reason:            ReasonSetback,
				Message:           "This market is closed to you while a setback is active.",
				RedemptionQuestID: definition.RedemptionQuestID,
			}, true
		}
	}
	return OpenStatus{}, false
}

func conditionsSatisfied(status models.MarketStatus, user models.User, data Data, now time.Time) bool {
	if len(status.Conditions) == 0 {
		return true
	}

	anyLogic := status.Logic == models.ConditionLogicAny
	for _, condition := range status.Conditions {
		satisfied := evaluateCondition(condition, user, data, now)
		if anyLogic && satisfied {
			return true
		}
		if !anyLogic && !satisfied {
			return false
		}
	}
	return !anyLogic
}

func evaluateCondition(condition models.MarketCondition, user models.User, data Data, now time.Time) bool {
	switch condition.Type {
	case models.ConditionMinRank:
		return meetsMinRank(user, condition.RankID, data.Ranks)
	case models.ConditionDayOfWeek:
		return slices.Contains(condition.Days, int(now.Weekday()))
	case models.ConditionDateRange:
		today := rules.ToYMD(now)
		return condition.StartDate <= today && today <= condition.EndDate
	case models.ConditionQuestCompleted:
		for _, completion := range data.QuestCompletions {
			if completion.UserID == user.ID && completion.QuestID == condition.QuestID &&
				completion.Status == models.CompletionStatusApproved {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func definitionByID(definitions []models.SetbackDefinition, id string) (models.SetbackDefinition, bool) {
	for _, definition := range definitions {
		if definition.ID == id {
			return definition, true
		}
	}
	return models.SetbackDefinition{}, false
}
