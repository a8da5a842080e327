package main

import (
	"log/slog"
	"os"

	"github.com/mckayc/task-donegeon-sub006/internal/config"
	"github.com/mckayc/task-donegeon-sub006/internal/database"
	"github.com/mckayc/task-donegeon-sub006/internal/handlers"
	"github.com/mckayc/task-donegeon-sub006/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	broadcaster := handlers.NewBroadcaster()

	srv := server.New(db, cfg, broadcaster)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
