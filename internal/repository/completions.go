package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type CompletionFilter struct {
	QuestID *string
	UserID  *string
	GuildID *string
	Status  *models.CompletionStatus
}

type QuestCompletionRepository interface {
	FindByID(ctx context.Context, id string) (models.QuestCompletion, error)
	FindAll(ctx context.Context, filter CompletionFilter) ([]models.QuestCompletion, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.QuestCompletion, error)
	Create(ctx context.Context, completion models.QuestCompletion) (models.QuestCompletion, error)
	UpdateStatus(ctx context.Context, id string, status models.CompletionStatus, actedOnBy string) error
}

type SQLiteQuestCompletionRepository struct {
	database *sql.DB
}

func NewQuestCompletionRepository(database *sql.DB) *SQLiteQuestCompletionRepository {
	return &SQLiteQuestCompletionRepository{database: database}
}

const completionColumns = `id, quest_id, user_id, guild_id, completed_at, status, note, acted_on_by, created_at, updated_at`

func (repository *SQLiteQuestCompletionRepository) FindByID(ctx context.Context, id string) (models.QuestCompletion, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+completionColumns+" FROM quest_completions WHERE id = ?", id)
	completion, err := scanCompletion(row)
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("finding completion by id: %w", err)
	}
	return completion, nil
}

func (repository *SQLiteQuestCompletionRepository) FindAll(ctx context.Context, filter CompletionFilter) ([]models.QuestCompletion, error) {
	query := "SELECT " + completionColumns + " FROM quest_completions WHERE 1=1"
	var args []any

	if filter.QuestID != nil {
		query += " AND quest_id = ?"
		args = append(args, *filter.QuestID)
	}
	if filter.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *filter.UserID)
	}
	if filter.GuildID != nil {
		query += " AND guild_id = ?"
		args = append(args, *filter.GuildID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY completed_at"

	return repository.queryCompletions(ctx, query, args...)
}

func (repository *SQLiteQuestCompletionRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.QuestCompletion, error) {
	return repository.queryCompletions(ctx,
		"SELECT "+completionColumns+" FROM quest_completions WHERE updated_at > ? ORDER BY completed_at", since)
}

func (repository *SQLiteQuestCompletionRepository) queryCompletions(ctx context.Context, query string, args ...any) ([]models.QuestCompletion, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding completions: %w", err)
	}
	defer rows.Close()

	var completions []models.QuestCompletion
	for rows.Next() {
		completion, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		completions = append(completions, completion)
	}
	return completions, rows.Err()
}

func (repository *SQLiteQuestCompletionRepository) Create(ctx context.Context, completion models.QuestCompletion) (models.QuestCompletion, error) {
	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}
	if completion.Status == "" {
		completion.Status = models.CompletionStatusPending
	}
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}
	now := time.Now()
	completion.CreatedAt = now
	completion.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO quest_completions (id, quest_id, user_id, guild_id, completed_at, status, note, acted_on_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		completion.ID, completion.QuestID, completion.UserID, completion.GuildID,
		completion.CompletedAt, completion.Status, completion.Note, completion.ActedOnBy,
		completion.CreatedAt, completion.UpdatedAt,
	)
	if err != nil {
		return models.QuestCompletion{}, fmt.Errorf("creating completion: %w", err)
	}
	return completion, nil
}

func (repository *SQLiteQuestCompletionRepository) UpdateStatus(ctx context.Context, id string, status models.CompletionStatus, actedOnBy string) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE quest_completions SET status = ?, acted_on_by = ?, updated_at = ? WHERE id = ?",
		status, actedOnBy, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating completion status: %w", err)
	}
	return nil
}

func scanCompletion(row rowScanner) (models.QuestCompletion, error) {
	var completion models.QuestCompletion
	err := row.Scan(
		&completion.ID, &completion.QuestID, &completion.UserID, &completion.GuildID,
		&completion.CompletedAt, &completion.Status, &completion.Note, &completion.ActedOnBy,
		&completion.CreatedAt, &completion.UpdatedAt,
	)
	if err != nil {
		return models.QuestCompletion{}, err
	}
	return completion, nil
}
