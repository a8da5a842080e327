package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type QuestFilter struct {
	Type     *models.QuestType
	GuildID  *string
	IsActive *bool
}

type QuestRepository interface {
	FindByID(ctx context.Context, id string) (models.Quest, error)
	FindAll(ctx context.Context, filter QuestFilter) ([]models.Quest, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Quest, error)
	Create(ctx context.Context, quest models.Quest) (models.Quest, error)
	Update(ctx context.Context, quest models.Quest) error
	Delete(ctx context.Context, id string) error
}

type SQLiteQuestRepository struct {
	database *sql.DB
}

func NewQuestRepository(database *sql.DB) *SQLiteQuestRepository {
	return &SQLiteQuestRepository{database: database}
}

const questColumns = `id, title, description, type, kind, rrule,
	start_date_time, end_date_time, end_time,
	assigned_user_ids, guild_id, is_active, is_optional, availability_count,
	todo_user_ids, claimed_by_user_ids, tags, rewards,
	created_by_user_id, created_at, updated_at`

func (repository *SQLiteQuestRepository) FindByID(ctx context.Context, id string) (models.Quest, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+questColumns+" FROM quests WHERE id = ?", id)
	quest, err := scanQuest(row)
	if err != nil {
		return models.Quest{}, fmt.Errorf("finding quest by id: %w", err)
	}
	return quest, nil
}

func (repository *SQLiteQuestRepository) FindAll(ctx context.Context, filter QuestFilter) ([]models.Quest, error) {
	query := "SELECT " + questColumns + " FROM quests WHERE 1=1"
	var args []any

	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, *filter.Type)
	}
	if filter.GuildID != nil {
		query += " AND guild_id = ?"
		args = append(args, *filter.GuildID)
	}
	if filter.IsActive != nil {
		query += " AND is_active = ?"
		args = append(args, *filter.IsActive)
	}
	query += " ORDER BY title"

	return repository.queryQuests(ctx, query, args...)
}

func (repository *SQLiteQuestRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Quest, error) {
	return repository.queryQuests(ctx,
		"SELECT "+questColumns+" FROM quests WHERE updated_at > ? ORDER BY title", since)
}

func (repository *SQLiteQuestRepository) queryQuests(ctx context.Context, query string, args ...any) ([]models.Quest, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding quests: %w", err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		quest, err := scanQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quest: %w", err)
		}
		quests = append(quests, quest)
	}
	return quests, rows.Err()
}

func (repository *SQLiteQuestRepository) Create(ctx context.Context, quest models.Quest) (models.Quest, error) {
	if quest.ID == "" {
		quest.ID = uuid.New().String()
	}
	if quest.Kind == "" {
		quest.Kind = models.QuestKindStandard
	}
	now := time.Now()
	quest.CreatedAt = now
	quest.UpdatedAt = now

	encoded, err := encodeQuestColumns(quest)
	if err != nil {
		return models.Quest{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO quests (id, title, description, type, kind, rrule,
			start_date_time, end_date_time, end_time,
			assigned_user_ids, guild_id, is_active, is_optional, availability_count,
			todo_user_ids, claimed_by_user_ids, tags, rewards,
			created_by_user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		quest.ID, quest.Title, quest.Description, quest.Type, quest.Kind, quest.RRule,
		quest.StartDateTime, quest.EndDateTime, quest.EndTime,
		encoded.assignedUserIDs, quest.GuildID, quest.IsActive, quest.IsOptional, quest.AvailabilityCount,
		encoded.todoUserIDs, encoded.claimedByUserIDs, encoded.tags, encoded.rewards,
		quest.CreatedByUserID, quest.CreatedAt, quest.UpdatedAt,
	)
	if err != nil {
		return models.Quest{}, fmt.Errorf("creating quest: %w", err)
	}
	return quest, nil
}

func (repository *SQLiteQuestRepository) Update(ctx context.Context, quest models.Quest) error {
	quest.UpdatedAt = time.Now()

	encoded, err := encodeQuestColumns(quest)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE quests SET title = ?, description = ?, type = ?, kind = ?, rrule = ?,
			start_date_time = ?, end_date_time = ?, end_time = ?,
			assigned_user_ids = ?, guild_id = ?, is_active = ?, is_optional = ?, availability_count = ?,
			todo_user_ids = ?, claimed_by_user_ids = ?, tags = ?, rewards = ?,
			updated_at = ?
		WHERE id = ?`,
		quest.Title, quest.Description, quest.Type, quest.Kind, quest.RRule,
		quest.StartDateTime, quest.EndDateTime, quest.EndTime,
		encoded.assignedUserIDs, quest.GuildID, quest.IsActive, quest.IsOptional, quest.AvailabilityCount,
		encoded.todoUserIDs, encoded.claimedByUserIDs, encoded.tags, encoded.rewards,
		quest.UpdatedAt, quest.ID,
	)
	if err != nil {
		return fmt.Errorf("updating quest: %w", err)
	}
	return nil
}

func (repository *SQLiteQuestRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM quests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting quest: %w", err)
	}
	return nil
}

type encodedQuestColumns struct {
	assignedUserIDs  string
	todoUserIDs      string
	claimedByUserIDs string
	tags             string
	rewards          string
}

func encodeQuestColumns(quest models.Quest) (encodedQuestColumns, error) {
	var encoded encodedQuestColumns
	var err error
	if encoded.assignedUserIDs, err = encodeJSON(orEmptyList(quest.AssignedUserIDs)); err != nil {
		return encoded, err
	}
	if encoded.todoUserIDs, err = encodeJSON(orEmptyList(quest.TodoUserIDs)); err != nil {
		return encoded, err
	}
	if encoded.claimedByUserIDs, err = encodeJSON(orEmptyList(quest.ClaimedByUserIDs)); err != nil {
		return encoded, err
	}
	if encoded.tags, err = encodeJSON(orEmptyList(quest.Tags)); err != nil {
		return encoded, err
	}
	rewards := quest.Rewards
	if rewards == nil {
		rewards = []models.RewardItem{}
	}
	if encoded.rewards, err = encodeJSON(rewards); err != nil {
		return encoded, err
	}
	return encoded, nil
}

func scanQuest(row rowScanner) (models.Quest, error) {
	var quest models.Quest
	var assignedUserIDs, todoUserIDs, claimedByUserIDs, tags, rewards string
	err := row.Scan(
		&quest.ID, &quest.Title, &quest.Description, &quest.Type, &quest.Kind, &quest.RRule,
		&quest.StartDateTime, &quest.EndDateTime, &quest.EndTime,
		&assignedUserIDs, &quest.GuildID, &quest.IsActive, &quest.IsOptional, &quest.AvailabilityCount,
		&todoUserIDs, &claimedByUserIDs, &tags, &rewards,
		&quest.CreatedByUserID, &quest.CreatedAt, &quest.UpdatedAt,
	)
	if err != nil {
		return models.Quest{}, err
	}
	if err := decodeJSON(assignedUserIDs, &quest.AssignedUserIDs); err != nil {
		return models.Quest{}, err
	}
	if err := decodeJSON(todoUserIDs, &quest.TodoUserIDs); err != nil {
		return models.Quest{}, err
	}
	if err := decodeJSON(claimedByUserIDs, &quest.ClaimedByUserIDs); err != nil {
		return models.Quest{}, err
	}
	if err := decodeJSON(tags, &quest.Tags); err != nil {
		return models.Quest{}, err
	}
	if err := decodeJSON(rewards, &quest.Rewards); err != nil {
		return models.Quest{}, err
	}
	return quest, nil
}
