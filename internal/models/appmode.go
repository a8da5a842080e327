package models

// AppMode scopes every quest, completion, and market lookup to either the
// personal view or a single guild's view.
type AppMode struct {
	Mode    string `json:"mode"`
	GuildID string `json:"guildId,omitempty"`
}

const (
	ModePersonal = "personal"
	ModeGuild    = "guild"
)

func PersonalMode() AppMode {
	return AppMode{Mode: ModePersonal}
}

func GuildMode(guildID string) AppMode {
	return AppMode{Mode: ModeGuild, GuildID: guildID}
}

// ModeForQuest derives the scope a quest naturally lives in.
func ModeForQuest(quest Quest) AppMode {
	if quest.GuildID != "" {
		return GuildMode(quest.GuildID)
	}
	return PersonalMode()
}
