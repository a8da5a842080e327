// donegeon-watch mirrors a Task Donegeon server into a local in-memory
// cache and prints a summary whenever a sync lands. It doubles as a smoke
// test for the delta endpoint and the event stream.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/config"
	"github.com/mckayc/task-donegeon-sub006/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	baseURL := cfg.BaseURL
	if fromEnv := os.Getenv("DONEGEON_URL"); fromEnv != "" {
		baseURL = fromEnv
	}
	token := os.Getenv("DONEGEON_TOKEN")
	if token == "" {
		slog.Error("DONEGEON_TOKEN is required")
		os.Exit(1)
	}

	store := sync.NewStore()
	client := sync.NewClient(baseURL, token)
	controller := sync.NewController(client, store, cfg.SyncPollInterval)
	subscriber := sync.NewSubscriber(baseURL+"/api/sync/events", token, controller)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go subscriber.Run(ctx)
	go controller.Run(ctx)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state := store.State()
			status, message := store.SyncStatus()
			slog.Info("cache state",
				"status", status,
				"message", message,
				"quests", len(state.Quests),
				"completions", len(state.QuestCompletions),
				"users", len(state.Users),
				"tags", len(state.AllTags),
			)
		}
	}
}
