package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type QuestHandler struct {
	questRepo      repository.QuestRepository
	completionRepo repository.QuestCompletionRepository
	userRepo       repository.UserRepository
	eventRepo      repository.ScheduledEventRepository
	tombstoneRepo  repository.TombstoneRepository
	questService   *services.QuestService
	notifier       services.Notifier
}

func NewQuestHandler(
	questRepo repository.QuestRepository,
	completionRepo repository.QuestCompletionRepository,
	userRepo repository.UserRepository,
	eventRepo repository.ScheduledEventRepository,
	tombstoneRepo repository.TombstoneRepository,
	questService *services.QuestService,
	notifier services.Notifier,
) *QuestHandler {
	return &QuestHandler{
		questRepo:      questRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		tombstoneRepo:  tombstoneRepo,
		questService:   questService,
		notifier:       notifier,
	}
}

// questView pairs a quest with the per-user status computed for it. Only
// filled when the list request names a user.
type questView struct {
	models.Quest
	UserStatus *rules.QuestUserStatus `json:"userStatus,omitempty"`
}

// List returns quests, optionally scoped to a user's view. With userId the
// result is filtered by visibility, annotated with each quest's status and
// ordered by the dashboard sort; without it the raw filtered list comes
// back in title order.
func (handler *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := repository.QuestFilter{}
	if questType := query.Get("type"); questType != "" {
		t := models.QuestType(questType)
		filter.Type = &t
	}
	if guildID, ok := query["guildId"]; ok && len(guildID) > 0 {
		filter.GuildID = &guildID[0]
	}

	userID := query.Get("userId")
	if userID != "" {
		active := true
		filter.IsActive = &active
	}

	quests, err := handler.questRepo.FindAll(ctx, filter)
	if err != nil {
		slog.Error("listing quests", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load quests")
		return
	}

	if userID == "" {
		writeJSON(w, http.StatusOK, quests)
		return
	}

	user, err := handler.userRepo.FindByID(ctx, userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	mode := models.PersonalMode()
	if query.Get("mode") == models.ModeGuild {
		mode = models.GuildMode(query.Get("guildId"))
	}

	date := time.Now()
	if raw := query.Get("date"); raw != "" {
		if parsed := rules.FromYMD(raw); !parsed.IsZero() {
			date = parsed
		}
	}

	completions, err := handler.completionRepo.FindAll(ctx, repository.CompletionFilter{UserID: &userID})
	if err != nil {
		slog.Error("listing completions for quest view", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}
	events, err := handler.eventRepo.FindAll(ctx)
	if err != nil {
		slog.Error("listing events for quest view", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load scheduled events")
		return
	}

	visible := quests[:0]
	for _, quest := range quests {
		if rules.IsQuestVisibleToUserInMode(quest, userID, mode) {
			visible = append(visible, quest)
		}
	}
	slices.SortStableFunc(visible, rules.QuestSorter(user, completions, events, date))

	views := make([]questView, 0, len(visible))
	for _, quest := range visible {
		status := rules.GetQuestUserStatus(quest, user, completions, date)
		views = append(views, questView{Quest: quest, UserStatus: &status})
	}
	writeJSON(w, http.StatusOK, views)
}

func (handler *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	quest, err := handler.questRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	writeJSON(w, http.StatusOK, quest)
}

// Status reports a single quest's button state for one user.
func (handler *QuestHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	quest, err := handler.questRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	user, err := handler.userRepo.FindByID(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	completions, err := handler.completionRepo.FindAll(ctx, repository.CompletionFilter{UserID: &user.ID})
	if err != nil {
		slog.Error("listing completions for quest status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}

	status := rules.GetQuestUserStatus(quest, user, completions, time.Now())
	writeJSON(w, http.StatusOK, status)
}

func (handler *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var quest models.Quest
	if err := decodeBody(r, &quest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest payload")
		return
	}
	quest.CreatedByUserID = middleware.GetUser(r.Context()).ID

	created, err := handler.questRepo.Create(r.Context(), quest)
	if err != nil {
		slog.Error("creating quest", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create quest")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}

func (handler *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, err := handler.questRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}

	var quest models.Quest
	if err := decodeBody(r, &quest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest payload")
		return
	}
	quest.ID = existing.ID
	quest.CreatedByUserID = existing.CreatedByUserID
	quest.CreatedAt = existing.CreatedAt

	if err := handler.questRepo.Update(ctx, quest); err != nil {
		slog.Error("updating quest", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update quest")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusOK, quest)
}

func (handler *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := handler.questRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting quest", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete quest")
		return
	}
	if err := handler.tombstoneRepo.Record(ctx, "quests", id); err != nil {
		slog.Error("recording quest tombstone", "error", err)
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}

type completeRequest struct {
	UserID  string `json:"userId"`
	Mode    string `json:"mode,omitempty"`
	GuildID string `json:"guildId,omitempty"`
	Note    string `json:"note,omitempty"`
}

func (handler *QuestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questID := chi.URLParam(r, "id")

	var request completeRequest
	if err := decodeBody(r, &request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	var mode models.AppMode
	switch request.Mode {
	case models.ModeGuild:
		mode = models.GuildMode(request.GuildID)
	case models.ModePersonal:
		mode = models.PersonalMode()
	default:
		// No mode supplied: fall back to the quest's natural scope.
		quest, err := handler.questRepo.FindByID(ctx, questID)
		if err != nil {
			writeError(w, http.StatusNotFound, "quest not found")
			return
		}
		mode = models.ModeForQuest(quest)
	}

	completion, err := handler.questService.CompleteQuest(ctx, questID, request.UserID, mode, request.Note)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		slog.Error("completing quest", "quest_id", questID, "error", err)
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

type claimRequest struct {
	UserID string `json:"userId"`
}

func (handler *QuestHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var request claimRequest
	if err := decodeBody(r, &request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	quest, err := handler.questService.ClaimQuest(r.Context(), chi.URLParam(r, "id"), request.UserID)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	writeJSON(w, http.StatusOK, quest)
}

func (handler *QuestHandler) Release(w http.ResponseWriter, r *http.Request) {
	var request claimRequest
	if err := decodeBody(r, &request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	quest, err := handler.questService.ReleaseQuest(r.Context(), chi.URLParam(r, "id"), request.UserID)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	writeJSON(w, http.StatusOK, quest)
}

type todoRequest struct {
	UserID string `json:"userId"`
	Todo   bool   `json:"todo"`
}

func (handler *QuestHandler) Todo(w http.ResponseWriter, r *http.Request) {
	var request todoRequest
	if err := decodeBody(r, &request); err != nil || request.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	quest, err := handler.questService.SetTodo(r.Context(), chi.URLParam(r, "id"), request.UserID, request.Todo)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "quest not found")
		return
	}
	writeJSON(w, http.StatusOK, quest)
}
