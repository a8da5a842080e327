package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type GuildHandler struct {
	guildRepo     repository.GuildRepository
	tombstoneRepo repository.TombstoneRepository
	notifier      services.Notifier
}

func NewGuildHandler(
	guildRepo repository.GuildRepository,
	tombstoneRepo repository.TombstoneRepository,
	notifier services.Notifier,
) *GuildHandler {
	return &GuildHandler{guildRepo: guildRepo, tombstoneRepo: tombstoneRepo, notifier: notifier}
}

func (handler *GuildHandler) List(w http.ResponseWriter, r *http.Request) {
	guilds, err := handler.guildRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load guilds")
		return
	}
	writeJSON(w, http.StatusOK, guilds)
}

func (handler *GuildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var guild models.Guild
	if err := decodeBody(r, &guild); err != nil || guild.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := handler.guildRepo.Create(r.Context(), guild)
	if err != nil {
		slog.Error("creating guild", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create guild")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}

func (handler *GuildHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, err := handler.guildRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "guild not found")
		return
	}

	var guild models.Guild
	if err := decodeBody(r, &guild); err != nil {
		writeError(w, http.StatusBadRequest, "invalid guild payload")
		return
	}
	guild.ID = existing.ID
	guild.CreatedAt = existing.CreatedAt

	if err := handler.guildRepo.Update(ctx, guild); err != nil {
		slog.Error("updating guild", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update guild")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusOK, guild)
}

func (handler *GuildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := handler.guildRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting guild", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete guild")
		return
	}
	if err := handler.tombstoneRepo.Record(ctx, "guilds", id); err != nil {
		slog.Error("recording guild tombstone", "error", err)
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}
