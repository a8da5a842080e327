package markets

import (
	"slices"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// RankForXP picks the highest rank whose threshold the XP total has reached.
// With no ranks defined, or XP below every threshold, the zero Rank is
// returned with ok=false.
func RankForXP(totalXP int, ranks []models.Rank) (models.Rank, bool) {
	sorted := slices.Clone(ranks)
	slices.SortFunc(sorted, func(a, b models.Rank) int { return a.XPThreshold - b.XPThreshold })

	var current models.Rank
	found := false
	for _, rank := range sorted {
		if totalXP >= rank.XPThreshold {
			current = rank
			found = true
		}
	}
	return current, found
}

func meetsMinRank(user models.User, requiredRankID string, ranks []models.Rank) bool {
	var required models.Rank
	found := false
	for _, rank := range ranks {
		if rank.ID == requiredRankID {
			required = rank
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return user.TotalXP() >= required.XPThreshold
}
