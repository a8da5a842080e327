package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/rules"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type EventHandler struct {
	eventRepo     repository.ScheduledEventRepository
	tombstoneRepo repository.TombstoneRepository
	notifier      services.Notifier
}

func NewEventHandler(
	eventRepo repository.ScheduledEventRepository,
	tombstoneRepo repository.TombstoneRepository,
	notifier services.Notifier,
) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, tombstoneRepo: tombstoneRepo, notifier: notifier}
}

func (handler *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := handler.eventRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scheduled events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (handler *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var event models.ScheduledEvent
	if err := decodeBody(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	if rules.FromYMD(event.StartDate).IsZero() || rules.FromYMD(event.EndDate).IsZero() {
		writeError(w, http.StatusBadRequest, "startDate and endDate must be YYYY-MM-DD")
		return
	}

	created, err := handler.eventRepo.Create(r.Context(), event)
	if err != nil {
		slog.Error("creating scheduled event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusCreated, created)
}

func (handler *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, err := handler.eventRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	var event models.ScheduledEvent
	if err := decodeBody(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt

	if err := handler.eventRepo.Update(ctx, event); err != nil {
		slog.Error("updating scheduled event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	handler.notifier.Notify()
	writeJSON(w, http.StatusOK, event)
}

func (handler *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := handler.eventRepo.Delete(ctx, id); err != nil {
		slog.Error("deleting scheduled event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if err := handler.tombstoneRepo.Record(ctx, "scheduledEvents", id); err != nil {
		slog.Error("recording event tombstone", "error", err)
	}

	handler.notifier.Notify()
	w.WriteHeader(http.StatusOK)
}
