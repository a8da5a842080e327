package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type SetbackDefinitionRepository interface {
	FindByID(ctx context.Context, id string) (models.SetbackDefinition, error)
	FindAll(ctx context.Context) ([]models.SetbackDefinition, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.SetbackDefinition, error)
	Create(ctx context.Context, definition models.SetbackDefinition) (models.SetbackDefinition, error)
	Delete(ctx context.Context, id string) error
}

type AppliedSetbackRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.AppliedSetback, error)
	FindAll(ctx context.Context) ([]models.AppliedSetback, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.AppliedSetback, error)
	Create(ctx context.Context, applied models.AppliedSetback) (models.AppliedSetback, error)
	UpdateStatus(ctx context.Context, id string, status models.SetbackStatus) error
}

type SQLiteSetbackDefinitionRepository struct {
	database *sql.DB
}

func NewSetbackDefinitionRepository(database *sql.DB) *SQLiteSetbackDefinitionRepository {
	return &SQLiteSetbackDefinitionRepository{database: database}
}

const setbackDefinitionColumns = `id, title, effects, redemption_quest_id, updated_at`

func (repository *SQLiteSetbackDefinitionRepository) FindByID(ctx context.Context, id string) (models.SetbackDefinition, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+setbackDefinitionColumns+" FROM setback_definitions WHERE id = ?", id)
	definition, err := scanSetbackDefinition(row)
	if err != nil {
		return models.SetbackDefinition{}, fmt.Errorf("finding setback definition by id: %w", err)
	}
	return definition, nil
}

func (repository *SQLiteSetbackDefinitionRepository) FindAll(ctx context.Context) ([]models.SetbackDefinition, error) {
	return repository.queryDefinitions(ctx,
		"SELECT "+setbackDefinitionColumns+" FROM setback_definitions ORDER BY title")
}

func (repository *SQLiteSetbackDefinitionRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.SetbackDefinition, error) {
	return repository.queryDefinitions(ctx,
		"SELECT "+setbackDefinitionColumns+" FROM setback_definitions WHERE updated_at > ? ORDER BY title", since)
}

func (repository *SQLiteSetbackDefinitionRepository) queryDefinitions(ctx context.Context, query string, args ...any) ([]models.SetbackDefinition, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding setback definitions: %w", err)
	}
	defer rows.Close()

	var definitions []models.SetbackDefinition
	for rows.Next() {
		definition, err := scanSetbackDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning setback definition: %w", err)
		}
		definitions = append(definitions, definition)
	}
	return definitions, rows.Err()
}

func (repository *SQLiteSetbackDefinitionRepository) Create(ctx context.Context, definition models.SetbackDefinition) (models.SetbackDefinition, error) {
	if definition.ID == "" {
		definition.ID = uuid.New().String()
	}
	definition.UpdatedAt = time.Now()

	effects := definition.Effects
	if effects == nil {
		effects = []models.SetbackEffect{}
	}
	encodedEffects, err := encodeJSON(effects)
	if err != nil {
		return models.SetbackDefinition{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO setback_definitions (id, title, effects, redemption_quest_id, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		definition.ID, definition.Title, encodedEffects, definition.RedemptionQuestID, definition.UpdatedAt,
	)
	if err != nil {
		return models.SetbackDefinition{}, fmt.Errorf("creating setback definition: %w", err)
	}
	return definition, nil
}

func (repository *SQLiteSetbackDefinitionRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM setback_definitions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting setback definition: %w", err)
	}
	return nil
}

func scanSetbackDefinition(row rowScanner) (models.SetbackDefinition, error) {
	var definition models.SetbackDefinition
	var effects string
	err := row.Scan(&definition.ID, &definition.Title, &effects,
		&definition.RedemptionQuestID, &definition.UpdatedAt)
	if err != nil {
		return models.SetbackDefinition{}, err
	}
	if err := decodeJSON(effects, &definition.Effects); err != nil {
		return models.SetbackDefinition{}, err
	}
	return definition, nil
}

type SQLiteAppliedSetbackRepository struct {
	database *sql.DB
}

func NewAppliedSetbackRepository(database *sql.DB) *SQLiteAppliedSetbackRepository {
	return &SQLiteAppliedSetbackRepository{database: database}
}

const appliedSetbackColumns = `id, setback_id, user_id, status, applied_at, expires_at, applied_by, updated_at`

func (repository *SQLiteAppliedSetbackRepository) FindByUser(ctx context.Context, userID string) ([]models.AppliedSetback, error) {
	return repository.queryApplied(ctx,
		"SELECT "+appliedSetbackColumns+" FROM applied_setbacks WHERE user_id = ? ORDER BY applied_at", userID)
}

func (repository *SQLiteAppliedSetbackRepository) FindAll(ctx context.Context) ([]models.AppliedSetback, error) {
	return repository.queryApplied(ctx,
		"SELECT "+appliedSetbackColumns+" FROM applied_setbacks ORDER BY applied_at")
}

func (repository *SQLiteAppliedSetbackRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.AppliedSetback, error) {
	return repository.queryApplied(ctx,
		"SELECT "+appliedSetbackColumns+" FROM applied_setbacks WHERE updated_at > ? ORDER BY applied_at", since)
}

func (repository *SQLiteAppliedSetbackRepository) queryApplied(ctx context.Context, query string, args ...any) ([]models.AppliedSetback, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding applied setbacks: %w", err)
	}
	defer rows.Close()

	var applied []models.AppliedSetback
	for rows.Next() {
		var setback models.AppliedSetback
		if err := rows.Scan(&setback.ID, &setback.SetbackID, &setback.UserID, &setback.Status,
			&setback.AppliedAt, &setback.ExpiresAt, &setback.AppliedBy, &setback.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning applied setback: %w", err)
		}
		applied = append(applied, setback)
	}
	return applied, rows.Err()
}

func (repository *SQLiteAppliedSetbackRepository) Create(ctx context.Context, applied models.AppliedSetback) (models.AppliedSetback, error) {
	if applied.ID == "" {
		applied.ID = uuid.New().String()
	}
	if applied.Status == "" {
		applied.Status = models.SetbackStatusActive
	}
	if applied.AppliedAt.IsZero() {
		applied.AppliedAt = time.Now()
	}
	applied.UpdatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO applied_setbacks (id, setback_id, user_id, status, applied_at, expires_at, applied_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		applied.ID, applied.SetbackID, applied.UserID, applied.Status,
		applied.AppliedAt, applied.ExpiresAt, applied.AppliedBy, applied.UpdatedAt,
	)
	if err != nil {
		return models.AppliedSetback{}, fmt.Errorf("creating applied setback: %w", err)
	}
	return applied, nil
}

func (repository *SQLiteAppliedSetbackRepository) UpdateStatus(ctx context.Context, id string, status models.SetbackStatus) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE applied_setbacks SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating applied setback status: %w", err)
	}
	return nil
}
