package rules

import (
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// IsVacationActiveOnDate reports whether any vacation event covers the given
// day for the given scope. Events with no guild are global; guild-scoped
// events only apply when guildID matches. While a vacation is active,
// deadline-based unavailability is suppressed: vacations pause lateness but
// never create extra completion windows.
func IsVacationActiveOnDate(day time.Time, events []models.ScheduledEvent, guildID string) bool {
	dayKey := ToYMD(day)
	for _, event := range events {
		if event.EventType != models.EventTypeVacation {
			continue
		}
		if event.GuildID != "" && event.GuildID != guildID {
			continue
		}
		if event.StartDate <= dayKey && dayKey <= event.EndDate {
			return true
		}
	}
	return false
}
