package rules

import (
	"testing"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsQuestVisibleToUserInMode(t *testing.T) {
	tests := []struct {
		name  string
		quest models.Quest
		mode  models.AppMode
		want  bool
	}{
		{
			name:  "inactive quest is invisible everywhere",
			quest: models.Quest{IsActive: false},
			mode:  models.PersonalMode(),
			want:  false,
		},
		{
			name:  "personal quest in personal mode",
			quest: models.Quest{IsActive: true},
			mode:  models.PersonalMode(),
			want:  true,
		},
		{
			name:  "personal quest hidden in guild mode",
			quest: models.Quest{IsActive: true},
			mode:  models.GuildMode("g1"),
			want:  false,
		},
		{
			name:  "guild quest in its own guild mode",
			quest: models.Quest{IsActive: true, GuildID: "g1"},
			mode:  models.GuildMode("g1"),
			want:  true,
		},
		{
			name:  "guild quest hidden in another guild",
			quest: models.Quest{IsActive: true, GuildID: "g1"},
			mode:  models.GuildMode("g2"),
			want:  false,
		},
		{
			name:  "guild quest hidden in personal mode",
			quest: models.Quest{IsActive: true, GuildID: "g1"},
			mode:  models.PersonalMode(),
			want:  false,
		},
		{
			name:  "assignment list includes the user",
			quest: models.Quest{IsActive: true, AssignedUserIDs: []string{"u1", "u2"}},
			mode:  models.PersonalMode(),
			want:  true,
		},
		{
			name:  "assignment list excludes the user",
			quest: models.Quest{IsActive: true, AssignedUserIDs: []string{"u2"}},
			mode:  models.PersonalMode(),
			want:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, IsQuestVisibleToUserInMode(test.quest, "u1", test.mode))
		})
	}
}
