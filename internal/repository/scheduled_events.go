package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type ScheduledEventRepository interface {
	FindByID(ctx context.Context, id string) (models.ScheduledEvent, error)
	FindAll(ctx context.Context) ([]models.ScheduledEvent, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.ScheduledEvent, error)
	Create(ctx context.Context, event models.ScheduledEvent) (models.ScheduledEvent, error)
	Update(ctx context.Context, event models.ScheduledEvent) error
	Delete(ctx context.Context, id string) error
}

type SQLiteScheduledEventRepository struct {
	database *sql.DB
}

func NewScheduledEventRepository(database *sql.DB) *SQLiteScheduledEventRepository {
	return &SQLiteScheduledEventRepository{database: database}
}

const scheduledEventColumns = `id, title, event_type, guild_id, start_date, end_date, modifiers, created_at, updated_at`

func (repository *SQLiteScheduledEventRepository) FindByID(ctx context.Context, id string) (models.ScheduledEvent, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+scheduledEventColumns+" FROM scheduled_events WHERE id = ?", id)
	event, err := scanScheduledEvent(row)
	if err != nil {
		return models.ScheduledEvent{}, fmt.Errorf("finding scheduled event by id: %w", err)
	}
	return event, nil
}

func (repository *SQLiteScheduledEventRepository) FindAll(ctx context.Context) ([]models.ScheduledEvent, error) {
	return repository.queryEvents(ctx,
		"SELECT "+scheduledEventColumns+" FROM scheduled_events ORDER BY start_date")
}

func (repository *SQLiteScheduledEventRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.ScheduledEvent, error) {
	return repository.queryEvents(ctx,
		"SELECT "+scheduledEventColumns+" FROM scheduled_events WHERE updated_at > ? ORDER BY start_date", since)
}

func (repository *SQLiteScheduledEventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]models.ScheduledEvent, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding scheduled events: %w", err)
	}
	defer rows.Close()

	var events []models.ScheduledEvent
	for rows.Next() {
		event, err := scanScheduledEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (repository *SQLiteScheduledEventRepository) Create(ctx context.Context, event models.ScheduledEvent) (models.ScheduledEvent, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	modifiers, err := encodeJSON(event.Modifiers)
	if err != nil {
		return models.ScheduledEvent{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO scheduled_events (id, title, event_type, guild_id, start_date, end_date, modifiers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.EventType, event.GuildID,
		event.StartDate, event.EndDate, modifiers, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return models.ScheduledEvent{}, fmt.Errorf("creating scheduled event: %w", err)
	}
	return event, nil
}

func (repository *SQLiteScheduledEventRepository) Update(ctx context.Context, event models.ScheduledEvent) error {
	event.UpdatedAt = time.Now()

	modifiers, err := encodeJSON(event.Modifiers)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE scheduled_events SET title = ?, event_type = ?, guild_id = ?,
			start_date = ?, end_date = ?, modifiers = ?, updated_at = ?
		WHERE id = ?`,
		event.Title, event.EventType, event.GuildID,
		event.StartDate, event.EndDate, modifiers, event.UpdatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scheduled event: %w", err)
	}
	return nil
}

func (repository *SQLiteScheduledEventRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM scheduled_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting scheduled event: %w", err)
	}
	return nil
}

func scanScheduledEvent(row rowScanner) (models.ScheduledEvent, error) {
	var event models.ScheduledEvent
	var modifiers string
	err := row.Scan(
		&event.ID, &event.Title, &event.EventType, &event.GuildID,
		&event.StartDate, &event.EndDate, &modifiers, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return models.ScheduledEvent{}, err
	}
	if err := decodeJSON(modifiers, &event.Modifiers); err != nil {
		return models.ScheduledEvent{}, err
	}
	return event, nil
}
