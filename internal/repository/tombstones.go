package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Tombstones record entity deletions so the delta endpoint can tell clients
// to drop items they already hold.
type TombstoneRepository interface {
	Record(ctx context.Context, entity string, entityID string) error
	FindSince(ctx context.Context, since time.Time) (map[string][]string, error)
}

type SQLiteTombstoneRepository struct {
	database *sql.DB
}

func NewTombstoneRepository(database *sql.DB) *SQLiteTombstoneRepository {
	return &SQLiteTombstoneRepository{database: database}
}

func (repository *SQLiteTombstoneRepository) Record(ctx context.Context, entity string, entityID string) error {
	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO tombstones (entity, entity_id, deleted_at) VALUES (?, ?, ?)
		ON CONFLICT(entity, entity_id) DO UPDATE SET deleted_at = excluded.deleted_at`,
		entity, entityID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("recording tombstone: %w", err)
	}
	return nil
}

func (repository *SQLiteTombstoneRepository) FindSince(ctx context.Context, since time.Time) (map[string][]string, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT entity, entity_id FROM tombstones WHERE deleted_at > ?", since,
	)
	if err != nil {
		return nil, fmt.Errorf("finding tombstones: %w", err)
	}
	defer rows.Close()

	removed := make(map[string][]string)
	for rows.Next() {
		var entity, entityID string
		if err := rows.Scan(&entity, &entityID); err != nil {
			return nil, fmt.Errorf("scanning tombstone: %w", err)
		}
		removed[entity] = append(removed[entity], entityID)
	}
	return removed, rows.Err()
}
