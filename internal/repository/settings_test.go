package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/testutil"
)

func TestSettingsRepository_SetAndGet(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	settingsRepo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	if err := settingsRepo.Set(ctx, "donegeon_name", "The Keep"); err != nil {
		t.Fatalf("setting value: %v", err)
	}

	value, err := settingsRepo.Get(ctx, "donegeon_name")
	if err != nil {
		t.Fatalf("getting value: %v", err)
	}
	if value != "The Keep" {
		t.Errorf("expected 'The Keep', got '%s'", value)
	}

	if err := settingsRepo.Set(ctx, "donegeon_name", "New Keep"); err != nil {
		t.Fatalf("overwriting value: %v", err)
	}

	all, err := settingsRepo.All(ctx)
	if err != nil {
		t.Fatalf("listing settings: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected upsert to keep a single row, got %d", len(all))
	}
	if all["donegeon_name"] != "New Keep" {
		t.Errorf("expected 'New Keep', got '%s'", all["donegeon_name"])
	}
}

func TestSettingsRepository_FindUpdatedSince(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	settingsRepo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	if err := settingsRepo.Set(ctx, "theme", "parchment"); err != nil {
		t.Fatalf("setting theme: %v", err)
	}

	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)

	if err := settingsRepo.Set(ctx, "donegeon_name", "The Keep"); err != nil {
		t.Fatalf("setting name: %v", err)
	}

	changed, err := settingsRepo.FindUpdatedSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("finding changed settings: %v", err)
	}
	if len(changed) != 1 {
		t.Fatalf("expected 1 changed setting, got %d", len(changed))
	}
	if changed["donegeon_name"] != "The Keep" {
		t.Errorf("expected the new setting, got %v", changed)
	}

	// Overwriting an old key bumps it past the cutoff too.
	if err := settingsRepo.Set(ctx, "theme", "slate"); err != nil {
		t.Fatalf("overwriting theme: %v", err)
	}
	changed, err = settingsRepo.FindUpdatedSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("finding changed settings: %v", err)
	}
	if len(changed) != 2 {
		t.Errorf("expected 2 changed settings after overwrite, got %d", len(changed))
	}

	none, err := settingsRepo.FindUpdatedSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("finding future changes: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no changes past a future cutoff, got %v", none)
	}
}
