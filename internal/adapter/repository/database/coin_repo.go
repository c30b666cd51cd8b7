package database

import (
	"context"
	"fmt"

	"github.com/simaogato/walletpnl/internal/domain"
)

// coinRepository implements domain.CoinRepository
type coinRepository struct {
	db *DB
}

// NewCoinRepository creates a new coin repository
func NewCoinRepository(db *DB) domain.CoinRepository {
	return &coinRepository{db: db}
}

// Upsert stores coin metadata in a single database transaction
// Coins that already exist are left untouched
func (r *coinRepository) Upsert(ctx context.Context, coins []domain.Coin) error {
	if len(coins) == 0 {
		return nil
	}

	for _, coin := range coins {
		if err := coin.Validate(); err != nil {
			return fmt.Errorf("invalid coin %q: %w", coin.CoinID, err)
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := r.db.rebind(`
		INSERT INTO coins (coin_id, name, symbol)
		VALUES ($1, $2, $3)
		ON CONFLICT (coin_id) DO NOTHING
	`)

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare coin insert: %w", err)
	}
	defer stmt.Close()

	for _, coin := range coins {
		if _, err := stmt.ExecContext(ctx, coin.CoinID, coin.Name, coin.Symbol); err != nil {
			return fmt.Errorf("failed to insert coin %s: %w", coin.CoinID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List retrieves all known coins ordered by id
func (r *coinRepository) List(ctx context.Context) ([]domain.Coin, error) {
	query := `
		SELECT coin_id, name, symbol
		FROM coins
		ORDER BY coin_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query coins: %w", err)
	}
	defer rows.Close()

	coins := make([]domain.Coin, 0)
	for rows.Next() {
		var coin domain.Coin
		if err := rows.Scan(&coin.CoinID, &coin.Name, &coin.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan coin: %w", err)
		}
		coins = append(coins, coin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coins: %w", err)
	}

	return coins, nil
}
