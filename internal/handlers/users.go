package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type UserHandler struct {
	userRepo repository.UserRepository
	notifier services.Notifier
}

func NewUserHandler(userRepo repository.UserRepository, notifier services.Notifier) *UserHandler {
	return &UserHandler{userRepo: userRepo, notifier: notifier}
}

func (handler *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := handler.userRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (handler *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := handler.userRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (handler *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeBody(r, &user); err != nil || user.GameName == "" {
		writeError(w, http.StatusBadRequest, "gameName is required")
		return
	}
	if user.Role == "" {
		user.Role = models.RoleExplorer
	}

	created, err := handler.userRepo.Create(r.Context(), user)
	if err != nil {
		slog.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}
