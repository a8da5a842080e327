package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Delta answers the polling endpoint. An absent or stale cursor gets the
// full aggregate; a valid one gets only rows changed since plus the ids
// of anything deleted in the meantime.
func (handler *SyncHandler) Delta(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	response, err := handler.syncService.Delta(r.Context(), cursor)
	if err != nil {
		slog.Error("assembling sync delta", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to assemble delta")
		return
	}
	writeJSON(w, http.StatusOK, response)
}
