package sync

import (
	"context"
	"log/slog"
	"time"
)

// Controller owns the sync loop: a steady poll ticker plus an out-of-band
// resync channel fed by the push stream. The channel holds one pending
// request, so a burst of wake-ups coalesces into a single extra poll and at
// most one sync is in flight at a time.
type Controller struct {
	client   *Client
	store    *Store
	interval time.Duration

	resync chan struct{}
	cursor string
}

func NewController(client *Client, store *Store, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Controller{
		client:   client,
		store:    store,
		interval: interval,
		resync:   make(chan struct{}, 1),
	}
}

// RequestResync schedules an out-of-cycle poll. Safe to call from any
// goroutine; duplicate requests while one is pending are dropped.
func (controller *Controller) RequestResync() {
	select {
	case controller.resync <- struct{}{}:
	default:
	}
}

// Run polls until the context is cancelled. The first pass carries no
// cursor and loads the full aggregate.
func (controller *Controller) Run(ctx context.Context) {
	controller.SyncOnce(ctx)

	ticker := time.NewTicker(controller.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			controller.SyncOnce(ctx)
		case <-controller.resync:
			controller.SyncOnce(ctx)
		}
	}
}

// SyncOnce performs a single poll-and-merge. The cursor only advances after
// a successful merge, so a failed or stale poll can never regress the
// cache, and a poll failure keeps the last good data.
func (controller *Controller) SyncOnce(ctx context.Context) {
	controller.store.SetSyncStatus(StatusSyncing, "")

	response, err := controller.client.Delta(ctx, controller.cursor)
	if err != nil {
		slog.Error("sync poll failed", "error", err)
		controller.store.SetSyncStatus(StatusError, err.Error())
		return
	}

	if controller.cursor == "" {
		controller.store.ApplyFull(response.Updates)
	} else {
		controller.store.ApplyDelta(response.Updates)
		controller.store.Remove(response.Removed)
	}

	if response.NewSyncTimestamp != "" {
		controller.cursor = response.NewSyncTimestamp
	}
	controller.store.SetSyncStatus(StatusSuccess, "")
}

// Cursor exposes the last applied sync cursor.
func (controller *Controller) Cursor() string {
	return controller.cursor
}
