package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type RankRepository interface {
	FindAll(ctx context.Context) ([]models.Rank, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Rank, error)
	Create(ctx context.Context, rank models.Rank) (models.Rank, error)
	Delete(ctx context.Context, id string) error
}

type RewardTypeRepository interface {
	FindAll(ctx context.Context) ([]models.RewardTypeDefinition, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.RewardTypeDefinition, error)
	Create(ctx context.Context, rewardType models.RewardTypeDefinition) (models.RewardTypeDefinition, error)
}

type SQLiteRankRepository struct {
	database *sql.DB
}

func NewRankRepository(database *sql.DB) *SQLiteRankRepository {
	return &SQLiteRankRepository{database: database}
}

func (repository *SQLiteRankRepository) FindAll(ctx context.Context) ([]models.Rank, error) {
	return repository.queryRanks(ctx,
		"SELECT id, name, xp_threshold, updated_at FROM ranks ORDER BY xp_threshold")
}

func (repository *SQLiteRankRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Rank, error) {
	return repository.queryRanks(ctx,
		"SELECT id, name, xp_threshold, updated_at FROM ranks WHERE updated_at > ? ORDER BY xp_threshold", since)
}

func (repository *SQLiteRankRepository) queryRanks(ctx context.Context, query string, args ...any) ([]models.Rank, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding ranks: %w", err)
	}
	defer rows.Close()

	var ranks []models.Rank
	for rows.Next() {
		var rank models.Rank
		if err := rows.Scan(&rank.ID, &rank.Name, &rank.XPThreshold, &rank.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning rank: %w", err)
		}
		ranks = append(ranks, rank)
	}
	return ranks, rows.Err()
}

func (repository *SQLiteRankRepository) Create(ctx context.Context, rank models.Rank) (models.Rank, error) {
	if rank.ID == "" {
		rank.ID = uuid.New().String()
	}
	rank.UpdatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO ranks (id, name, xp_threshold, updated_at) VALUES (?, ?, ?, ?)",
		rank.ID, rank.Name, rank.XPThreshold, rank.UpdatedAt,
	)
	if err != nil {
		return models.Rank{}, fmt.Errorf("creating rank: %w", err)
	}
	return rank, nil
}

func (repository *SQLiteRankRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM ranks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rank: %w", err)
	}
	return nil
}

type SQLiteRewardTypeRepository struct {
	database *sql.DB
}

func NewRewardTypeRepository(database *sql.DB) *SQLiteRewardTypeRepository {
	return &SQLiteRewardTypeRepository{database: database}
}

func (repository *SQLiteRewardTypeRepository) FindAll(ctx context.Context) ([]models.RewardTypeDefinition, error) {
	return repository.queryRewardTypes(ctx,
		"SELECT id, name, category, is_core, updated_at FROM reward_types ORDER BY name")
}

func (repository *SQLiteRewardTypeRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.RewardTypeDefinition, error) {
	return repository.queryRewardTypes(ctx,
		"SELECT id, name, category, is_core, updated_at FROM reward_types WHERE updated_at > ? ORDER BY name", since)
}

func (repository *SQLiteRewardTypeRepository) queryRewardTypes(ctx context.Context, query string, args ...any) ([]models.RewardTypeDefinition, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding reward types: %w", err)
	}
	defer rows.Close()

	var rewardTypes []models.RewardTypeDefinition
	for rows.Next() {
		var rewardType models.RewardTypeDefinition
		if err := rows.Scan(&rewardType.ID, &rewardType.Name, &rewardType.Category,
			&rewardType.IsCore, &rewardType.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning reward type: %w", err)
		}
		rewardTypes = append(rewardTypes, rewardType)
	}
	return rewardTypes, rows.Err()
}

func (repository *SQLiteRewardTypeRepository) Create(ctx context.Context, rewardType models.RewardTypeDefinition) (models.RewardTypeDefinition, error) {
	if rewardType.ID == "" {
		rewardType.ID = uuid.New().String()
	}
	rewardType.UpdatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO reward_types (id, name, category, is_core, updated_at) VALUES (?, ?, ?, ?, ?)",
		rewardType.ID, rewardType.Name, rewardType.Category, rewardType.IsCore, rewardType.UpdatedAt,
	)
	if err != nil {
		return models.RewardTypeDefinition{}, fmt.Errorf("creating reward type: %w", err)
	}
	return rewardType, nil
}
