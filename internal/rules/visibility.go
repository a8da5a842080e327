package rules

import (
	"slices"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// IsQuestVisibleToUserInMode enforces scope separation: guild quests only
// show under their own guild's mode, personal quests only under personal
// mode. Within the right scope an empty assignment list means everyone.
func IsQuestVisibleToUserInMode(quest models.Quest, userID string, mode models.AppMode) bool {
	if !quest.IsActive {
		return false
	}

	if quest.GuildID != "" {
		if mode.Mode != models.ModeGuild || mode.GuildID != quest.GuildID {
			return false
		}
	} else if mode.Mode != models.ModePersonal {
		return false
	}

	if len(quest.AssignedUserIDs) == 0 {
		return true
	}
	return slices.Contains(quest.AssignedUserIDs, userID)
}
