package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	Count(ctx context.Context) (int, error)
}

type SQLiteUserRepository struct {
	database *sql.DB
}

func NewUserRepository(database *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

const userColumns = `id, game_name, email, role, personal_purse, personal_experience, guild_ids, created_at, updated_at`

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id,
	)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return repository.queryUsers(ctx, "SELECT "+userColumns+" FROM users ORDER BY game_name")
}

func (repository *SQLiteUserRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.User, error) {
	return repository.queryUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE updated_at > ? ORDER BY game_name", since)
}

func (repository *SQLiteUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleExplorer
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	purse, err := encodeJSON(orEmptyMap(user.PersonalPurse))
	if err != nil {
		return models.User{}, err
	}
	experience, err := encodeJSON(orEmptyMap(user.PersonalExperience))
	if err != nil {
		return models.User{}, err
	}
	guildIDs, err := encodeJSON(orEmptyList(user.GuildIDs))
	if err != nil {
		return models.User{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO users (id, game_name, email, role, personal_purse, personal_experience, guild_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.GameName, user.Email, user.Role, purse, experience, guildIDs, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Update(ctx context.Context, user models.User) error {
	user.UpdatedAt = time.Now()

	purse, err := encodeJSON(orEmptyMap(user.PersonalPurse))
	if err != nil {
		return err
	}
	experience, err := encodeJSON(orEmptyMap(user.PersonalExperience))
	if err != nil {
		return err
	}
	guildIDs, err := encodeJSON(orEmptyList(user.GuildIDs))
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE users SET game_name = ?, email = ?, role = ?, personal_purse = ?,
			personal_experience = ?, guild_ids = ?, updated_at = ?
		WHERE id = ?`,
		user.GameName, user.Email, user.Role, purse, experience, guildIDs, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (repository *SQLiteUserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE users SET role = ?, updated_at = ? WHERE id = ?",
		role, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user role: %w", err)
	}
	return nil
}

func (repository *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	var purse, experience, guildIDs string
	err := row.Scan(&user.ID, &user.GameName, &user.Email, &user.Role,
		&purse, &experience, &guildIDs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	if err := decodeJSON(purse, &user.PersonalPurse); err != nil {
		return models.User{}, err
	}
	if err := decodeJSON(experience, &user.PersonalExperience); err != nil {
		return models.User{}, err
	}
	if err := decodeJSON(guildIDs, &user.GuildIDs); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func orEmptyMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func orEmptyList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
