package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deltaServer serves canned responses keyed by cursor and records which
// cursors it was asked for.
func deltaServer(t *testing.T, responses map[string]DeltaResponse) (*httptest.Server, *[]string) {
	t.Helper()
	var cursors []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sync/delta", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)

		response, ok := responses[cursor]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server, &cursors
}

func TestSyncOnceFullThenDelta(t *testing.T) {
	server, cursors := deltaServer(t, map[string]DeltaResponse{
		"": {
			Updates: Delta{
				Quests: []models.Quest{quest("q1", "Dishes"), quest("q2", "Mow")},
			},
			NewSyncTimestamp: "cursor-1",
		},
		"cursor-1": {
			Updates: Delta{Quests: []models.Quest{quest("q1", "Dishes v2")}},
			Removed: Removed{"quests": {"q2"}},
			NewSyncTimestamp: "cursor-2",
		},
	})

	store := NewStore()
	controller := NewController(NewClient(server.URL, "secret"), store, 0)

	controller.SyncOnce(context.Background())
	assert.Equal(t, "cursor-1", controller.Cursor())
	assert.True(t, store.IsDataLoaded())
	assert.Len(t, store.State().Quests, 2)

	controller.SyncOnce(context.Background())
	assert.Equal(t, "cursor-2", controller.Cursor())

	state := store.State()
	assert.Len(t, state.Quests, 1)
	assert.Equal(t, "Dishes v2", state.Quests[0].Title)

	status, _ := store.SyncStatus()
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, []string{"", "cursor-1"}, *cursors)
}

func TestSyncOnceFailureKeepsCacheAndCursor(t *testing.T) {
	server, _ := deltaServer(t, map[string]DeltaResponse{
		"": {
			Updates:          Delta{Quests: []models.Quest{quest("q1", "Dishes")}},
			NewSyncTimestamp: "cursor-1",
		},
		// No entry for "cursor-1": the second poll returns 500.
	})

	store := NewStore()
	controller := NewController(NewClient(server.URL, "secret"), store, 0)

	controller.SyncOnce(context.Background())
	require.Equal(t, "cursor-1", controller.Cursor())

	controller.SyncOnce(context.Background())

	// Failed poll: cursor untouched, last good data intact, status error.
	assert.Equal(t, "cursor-1", controller.Cursor())
	assert.Len(t, store.State().Quests, 1)
	status, message := store.SyncStatus()
	assert.Equal(t, StatusError, status)
	assert.NotEmpty(t, message)
}

func TestRequestResyncCoalesces(t *testing.T) {
	controller := NewController(nil, NewStore(), 0)

	controller.RequestResync()
	controller.RequestResync()
	controller.RequestResync()

	// Only one wake-up is buffered.
	assert.Len(t, controller.resync, 1)
	<-controller.resync
	assert.Empty(t, controller.resync)
}
