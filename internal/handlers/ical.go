package handlers

import (
	"log/slog"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
)

type ICalHandler struct {
	questRepo    repository.QuestRepository
	eventRepo    repository.ScheduledEventRepository
	tokenRepo    repository.APITokenRepository
	settingsRepo repository.SettingsRepository
}

func NewICalHandler(
	questRepo repository.QuestRepository,
	eventRepo repository.ScheduledEventRepository,
	tokenRepo repository.APITokenRepository,
	settingsRepo repository.SettingsRepository,
) *ICalHandler {
	return &ICalHandler{
		questRepo:    questRepo,
		eventRepo:    eventRepo,
		tokenRepo:    tokenRepo,
		settingsRepo: settingsRepo,
	}
}

// Feed serves the quest schedule as an iCalendar file. Auth is a token
// query parameter scoped to "ical" so calendar apps can subscribe without
// header support.
func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tokenHash := repository.HashToken(token)
	found, err := handler.tokenRepo.FindByTokenHash(r.Context(), tokenHash)
	if err != nil || found.Scope != "ical" ||
		(found.ExpiresAt != nil && found.ExpiresAt.Before(time.Now())) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()

	active := true
	quests, err := handler.questRepo.FindAll(ctx, repository.QuestFilter{IsActive: &active})
	if err != nil {
		slog.Error("finding quests for ical", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}
	events, err := handler.eventRepo.FindAll(ctx)
	if err != nil {
		slog.Error("finding events for ical", "error", err)
	}

	calendarName := "Task Donegeon"
	if name, err := handler.settingsRepo.Get(ctx, "donegeon_name"); err == nil && name != "" {
		calendarName = name
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//" + calendarName + "//EN")
	calendar.SetXWRCalName(calendarName)

	now := time.Now()
	for _, quest := range quests {
		switch quest.Type {
		case models.QuestTypeDuty:
			appendDutyEvent(calendar, quest, now)
		case models.QuestTypeVenture, models.QuestTypeJourney:
			appendDeadlineEvent(calendar, quest, now)
		}
	}

	for _, scheduled := range events {
		start := rules.FromYMD(scheduled.StartDate)
		end := rules.FromYMD(scheduled.EndDate)
		if start.IsZero() || end.IsZero() {
			continue
		}
		event := calendar.AddEvent("event-" + scheduled.ID + "@task-donegeon")
		event.SetSummary(scheduled.Title)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(start)
		// DTEND is exclusive for all-day spans.
		event.SetAllDayEndAt(end.AddDate(0, 0, 1))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=task-donegeon.ics")
	w.Write([]byte(calendar.Serialize()))
}

// appendDutyEvent emits a recurring event carrying the duty's own RRULE.
func appendDutyEvent(calendar *ics.Calendar, quest models.Quest, now time.Time) {
	if quest.RRule == "" {
		return
	}

	event := calendar.AddEvent("duty-" + quest.ID + "@task-donegeon")
	event.SetSummary(quest.Title)
	if quest.Description != "" {
		event.SetDescription(quest.Description)
	}
	event.SetDtStampTime(now)
	event.AddRrule(quest.RRule)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
}

// appendDeadlineEvent emits a single all-day event on the quest's due date.
func appendDeadlineEvent(calendar *ics.Calendar, quest models.Quest, now time.Time) {
	if quest.EndDateTime == nil {
		return
	}

	event := calendar.AddEvent("quest-" + quest.ID + "@task-donegeon")
	event.SetSummary(quest.Title)
	if quest.Description != "" {
		event.SetDescription(quest.Description)
	}
	event.SetDtStampTime(now)

	due := *quest.EndDateTime
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
}
