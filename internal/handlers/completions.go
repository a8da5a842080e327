package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type CompletionHandler struct {
	completionRepo repository.QuestCompletionRepository
	questService   *services.QuestService
}

func NewCompletionHandler(completionRepo repository.QuestCompletionRepository, questService *services.QuestService) *CompletionHandler {
	return &CompletionHandler{completionRepo: completionRepo, questService: questService}
}

func (handler *CompletionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.CompletionFilter{}

	if status := query.Get("status"); status != "" {
		s := models.CompletionStatus(status)
		filter.Status = &s
	}
	if userID := query.Get("userId"); userID != "" {
		filter.UserID = &userID
	}
	if questID := query.Get("questId"); questID != "" {
		filter.QuestID = &questID
	}
	if guildID, ok := query["guildId"]; ok && len(guildID) > 0 {
		filter.GuildID = &guildID[0]
	}

	completions, err := handler.completionRepo.FindAll(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load completions")
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

func (handler *CompletionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	approver := middleware.GetUser(r.Context())

	err := handler.questService.ApproveCompletion(r.Context(), chi.URLParam(r, "id"), approver.ID)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *CompletionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	rejecter := middleware.GetUser(r.Context())

	err := handler.questService.RejectCompletion(r.Context(), chi.URLParam(r, "id"), rejecter.ID)
	if err != nil {
		if status, ok := ruleErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "completion not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}
