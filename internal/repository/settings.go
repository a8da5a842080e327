package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	All(ctx context.Context) (map[string]string, error)
	FindUpdatedSince(ctx context.Context, since time.Time) (map[string]string, error)
}

type SQLiteSettingsRepository struct {
	database *sql.DB
}

func NewSettingsRepository(database *sql.DB) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{database: database}
}

func (repository *SQLiteSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := repository.database.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

func (repository *SQLiteSettingsRepository) Set(ctx context.Context, key string, value string) error {
	now := time.Now()
	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?",
		key, value, now, value, now,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

func (repository *SQLiteSettingsRepository) All(ctx context.Context) (map[string]string, error) {
	return repository.querySettings(ctx, "SELECT key, value FROM settings")
}

func (repository *SQLiteSettingsRepository) FindUpdatedSince(ctx context.Context, since time.Time) (map[string]string, error) {
	return repository.querySettings(ctx, "SELECT key, value FROM settings WHERE updated_at > ?", since)
}

func (repository *SQLiteSettingsRepository) querySettings(ctx context.Context, query string, args ...any) (map[string]string, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}
