package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletpnl/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new historical price repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// Insert stores price samples for a coin in a single database transaction
// Samples whose (coin_id, timestamp) already exist are skipped
func (r *priceRepository) Insert(ctx context.Context, coinID string, samples []domain.PriceSample) error {
	if len(samples) == 0 {
		return nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := r.db.rebind(`
		INSERT INTO historical_data (coin_id, timestamp, price_usd)
		VALUES ($1, $2, $3)
		ON CONFLICT (coin_id, timestamp) DO NOTHING
	`)

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare historical data insert: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		_, err := stmt.ExecContext(ctx, coinID, sample.Timestamp.UTC(), sample.PriceUSD.String())
		if err != nil {
			return fmt.Errorf("failed to insert historical data for %s: %w", coinID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FetchHistorical retrieves every sample of the given coins with from <= timestamp <= to
func (r *priceRepository) FetchHistorical(ctx context.Context, coinIDs []string, from, to time.Time) ([]domain.HistoricalPrice, error) {
	prices := make([]domain.HistoricalPrice, 0)
	if len(coinIDs) == 0 {
		return prices, nil
	}

	query, args := r.historicalQuery(coinIDs, from.UTC(), to.UTC())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.HistoricalPrice
		var priceStr string

		if err := rows.Scan(&entry.CoinID, &entry.Timestamp, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan historical data: %w", err)
		}

		// Parse price_usd (DECIMAL)
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price_usd: %w", err)
		}
		entry.PriceUSD = price
		entry.Timestamp = entry.Timestamp.UTC()

		prices = append(prices, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating historical data: %w", err)
	}

	return prices, nil
}

// historicalQuery builds the dialect specific range query
func (r *priceRepository) historicalQuery(coinIDs []string, from, to time.Time) (string, []interface{}) {
	if r.db.Driver() == DriverPostgres {
		query := `
			SELECT coin_id, timestamp, price_usd
			FROM historical_data
			WHERE coin_id = ANY($1) AND timestamp BETWEEN $2 AND $3
			ORDER BY coin_id, timestamp
		`
		return query, []interface{}{pq.Array(coinIDs), from, to}
	}

	marks := make([]string, len(coinIDs))
	args := make([]interface{}, 0, len(coinIDs)+2)
	for i, id := range coinIDs {
		marks[i] = "?"
		args = append(args, id)
	}
	args = append(args, from, to)

	query := fmt.Sprintf(`
		SELECT coin_id, timestamp, price_usd
		FROM historical_data
		WHERE coin_id IN (%s) AND timestamp BETWEEN ? AND ?
		ORDER BY coin_id, timestamp
	`, strings.Join(marks, ", "))

	return query, args
}
