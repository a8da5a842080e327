package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/middleware"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type AdminHandler struct {
	userRepo     repository.UserRepository
	tokenRepo    repository.APITokenRepository
	settingsRepo repository.SettingsRepository
	notifier     services.Notifier
}

func NewAdminHandler(
	userRepo repository.UserRepository,
	tokenRepo repository.APITokenRepository,
	settingsRepo repository.SettingsRepository,
	notifier services.Notifier,
) *AdminHandler {
	return &AdminHandler{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
	}
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (handler *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var request roleRequest
	if err := decodeBody(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid role payload")
		return
	}

	switch request.Role {
	case models.RoleDonegeonMaster, models.RoleGatekeeper, models.RoleExplorer:
	default:
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	if err := handler.userRepo.UpdateRole(r.Context(), chi.URLParam(r, "id"), request.Role); err != nil {
		slog.Error("updating user role", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update role")
		return
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}

type tokenRequest struct {
	Name  string `json:"name"`
	Scope string `json:"scope,omitempty"`
}

func (handler *AdminHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request tokenRequest
	if err := decodeBody(r, &request); err != nil || request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rawToken := generateToken()
	token := models.APIToken{
		Name:            request.Name,
		TokenHash:       repository.HashToken(rawToken),
		Scope:           request.Scope,
		CreatedByUserID: user.ID,
	}

	created, err := handler.tokenRepo.Create(ctx, token)
	if err != nil {
		slog.Error("creating token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	// The raw token is only ever shown here.
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    created.ID,
		"name":  created.Name,
		"scope": created.Scope,
		"token": rawToken,
	})
}

func (handler *AdminHandler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if err := handler.tokenRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (handler *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings map[string]string
	if err := decodeBody(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}

	for key, value := range settings {
		if err := handler.settingsRepo.Set(r.Context(), key, value); err != nil {
			slog.Error("saving setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	if len(settings) > 0 {
		handler.notifier.Notify()
	}
	w.WriteHeader(http.StatusOK)
}
