package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type GuildRepository interface {
	FindByID(ctx context.Context, id string) (models.Guild, error)
	FindAll(ctx context.Context) ([]models.Guild, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Guild, error)
	Create(ctx context.Context, guild models.Guild) (models.Guild, error)
	Update(ctx context.Context, guild models.Guild) error
	Delete(ctx context.Context, id string) error
}

type SQLiteGuildRepository struct {
	database *sql.DB
}

func NewGuildRepository(database *sql.DB) *SQLiteGuildRepository {
	return &SQLiteGuildRepository{database: database}
}

const guildColumns = `id, name, member_ids, created_at, updated_at`

func (repository *SQLiteGuildRepository) FindByID(ctx context.Context, id string) (models.Guild, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+guildColumns+" FROM guilds WHERE id = ?", id)
	guild, err := scanGuild(row)
	if err != nil {
		return models.Guild{}, fmt.Errorf("finding guild by id: %w", err)
	}
	return guild, nil
}

func (repository *SQLiteGuildRepository) FindAll(ctx context.Context) ([]models.Guild, error) {
	return repository.queryGuilds(ctx, "SELECT "+guildColumns+" FROM guilds ORDER BY name")
}

func (repository *SQLiteGuildRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Guild, error) {
	return repository.queryGuilds(ctx,
		"SELECT "+guildColumns+" FROM guilds WHERE updated_at > ? ORDER BY name", since)
}

func (repository *SQLiteGuildRepository) queryGuilds(ctx context.Context, query string, args ...any) ([]models.Guild, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding guilds: %w", err)
	}
	defer rows.Close()

	var guilds []models.Guild
	for rows.Next() {
		guild, err := scanGuild(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning guild: %w", err)
		}
		guilds = append(guilds, guild)
	}
	return guilds, rows.Err()
}

func (repository *SQLiteGuildRepository) Create(ctx context.Context, guild models.Guild) (models.Guild, error) {
	if guild.ID == "" {
		guild.ID = uuid.New().String()
	}
	now := time.Now()
	guild.CreatedAt = now
	guild.UpdatedAt = now

	memberIDs, err := encodeJSON(orEmptyList(guild.MemberIDs))
	if err != nil {
		return models.Guild{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO guilds (id, name, member_ids, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		guild.ID, guild.Name, memberIDs, guild.CreatedAt, guild.UpdatedAt,
	)
	if err != nil {
		return models.Guild{}, fmt.Errorf("creating guild: %w", err)
	}
	return guild, nil
}

func (repository *SQLiteGuildRepository) Update(ctx context.Context, guild models.Guild) error {
	guild.UpdatedAt = time.Now()

	memberIDs, err := encodeJSON(orEmptyList(guild.MemberIDs))
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		"UPDATE guilds SET name = ?, member_ids = ?, updated_at = ? WHERE id = ?",
		guild.Name, memberIDs, guild.UpdatedAt, guild.ID,
	)
	if err != nil {
		return fmt.Errorf("updating guild: %w", err)
	}
	return nil
}

func (repository *SQLiteGuildRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM guilds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting guild: %w", err)
	}
	return nil
}

func scanGuild(row rowScanner) (models.Guild, error) {
	var guild models.Guild
	var memberIDs string
	err := row.Scan(&guild.ID, &guild.Name, &memberIDs, &guild.CreatedAt, &guild.UpdatedAt)
	if err != nil {
		return models.Guild{}, err
	}
	if err := decodeJSON(memberIDs, &guild.MemberIDs); err != nil {
		return models.Guild{}, err
	}
	return guild, nil
}
