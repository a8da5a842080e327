package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mckayc/task-donegeon-sub006/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, into interface{}) error {
	return json.NewDecoder(r.Body).Decode(into)
}

func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// ruleErrorStatus maps the quest service's sentinel errors to HTTP codes.
// Anything unrecognized is treated as a lookup failure.
func ruleErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrQuestNotVisible):
		return http.StatusForbidden, true
	case errors.Is(err, services.ErrQuestNotAvailable),
		errors.Is(err, services.ErrCompletionNotPending),
		errors.Is(err, services.ErrNotClaimable),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrClaimSlotsFull),
		errors.Is(err, services.ErrNotClaimed),
		errors.Is(err, services.ErrTodoVentureOnly):
		return http.StatusConflict, true
	}
	return 0, false
}
