package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

type MarketRepository interface {
	FindByID(ctx context.Context, id string) (models.Market, error)
	FindAll(ctx context.Context) ([]models.Market, error)
	FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Market, error)
	Create(ctx context.Context, market models.Market) (models.Market, error)
	Update(ctx context.Context, market models.Market) error
	Delete(ctx context.Context, id string) error
}

type SQLiteMarketRepository struct {
	database *sql.DB
}

func NewMarketRepository(database *sql.DB) *SQLiteMarketRepository {
	return &SQLiteMarketRepository{database: database}
}

const marketColumns = `id, title, guild_id, status, items, created_at, updated_at`

func (repository *SQLiteMarketRepository) FindByID(ctx context.Context, id string) (models.Market, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+marketColumns+" FROM markets WHERE id = ?", id)
	market, err := scanMarket(row)
	if err != nil {
		return models.Market{}, fmt.Errorf("finding market by id: %w", err)
	}
	return market, nil
}

func (repository *SQLiteMarketRepository) FindAll(ctx context.Context) ([]models.Market, error) {
	return repository.queryMarkets(ctx, "SELECT "+marketColumns+" FROM markets ORDER BY title")
}

func (repository *SQLiteMarketRepository) FindUpdatedSince(ctx context.Context, since time.Time) ([]models.Market, error) {
	return repository.queryMarkets(ctx,
		"SELECT "+marketColumns+" FROM markets WHERE updated_at > ? ORDER BY title", since)
}

func (repository *SQLiteMarketRepository) queryMarkets(ctx context.Context, query string, args ...any) ([]models.Market, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding markets: %w", err)
	}
	defer rows.Close()

	var markets []models.Market
	for rows.Next() {
		market, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning market: %w", err)
		}
		markets = append(markets, market)
	}
	return markets, rows.Err()
}

func (repository *SQLiteMarketRepository) Create(ctx context.Context, market models.Market) (models.Market, error) {
	if market.ID == "" {
		market.ID = uuid.New().String()
	}
	if market.Status.Type == "" {
		market.Status.Type = models.MarketStatusOpen
	}
	now := time.Now()
	market.CreatedAt = now
	market.UpdatedAt = now

	status, err := encodeJSON(market.Status)
	if err != nil {
		return models.Market{}, err
	}
	items := market.Items
	if items == nil {
		items = []models.MarketItem{}
	}
	encodedItems, err := encodeJSON(items)
	if err != nil {
		return models.Market{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO markets (id, title, guild_id, status, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		market.ID, market.Title, market.GuildID, status, encodedItems, market.CreatedAt, market.UpdatedAt,
	)
	if err != nil {
		return models.Market{}, fmt.Errorf("creating market: %w", err)
	}
	return market, nil
}

func (repository *SQLiteMarketRepository) Update(ctx context.Context, market models.Market) error {
	market.UpdatedAt = time.Now()

	status, err := encodeJSON(market.Status)
	if err != nil {
		return err
	}
	items := market.Items
	if items == nil {
		items = []models.MarketItem{}
	}
	encodedItems, err := encodeJSON(items)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE markets SET title = ?, guild_id = ?, status = ?, items = ?, updated_at = ? WHERE id = ?`,
		market.Title, market.GuildID, status, encodedItems, market.UpdatedAt, market.ID,
	)
	if err != nil {
		return fmt.Errorf("updating market: %w", err)
	}
	return nil
}

func (repository *SQLiteMarketRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM markets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting market: %w", err)
	}
	return nil
}

func scanMarket(row rowScanner) (models.Market, error) {
	var market models.Market
	var status, items string
	err := row.Scan(&market.ID, &market.Title, &market.GuildID, &status, &items,
		&market.CreatedAt, &market.UpdatedAt)
	if err != nil {
		return models.Market{}, err
	}
	if err := decodeJSON(status, &market.Status); err != nil {
		return models.Market{}, err
	}
	if err := decodeJSON(items, &market.Items); err != nil {
		return models.Market{}, err
	}
	return market, nil
}
