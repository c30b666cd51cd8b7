package domain

import (
	"context"
	"time"
)

// CoinRepository defines the interface for coin metadata persistence operations
type CoinRepository interface {
	// Upsert stores coin metadata, skipping coins that already exist
	Upsert(ctx context.Context, coins []Coin) error
	// List retrieves all known coins ordered by id
	List(ctx context.Context) ([]Coin, error)
}

// PriceRepository defines the interface for historical price persistence operations
type PriceRepository interface {
	// Insert stores price samples for a coin
	// Samples whose (coin, timestamp) already exist are skipped, not reported as errors
	Insert(ctx context.Context, coinID string, samples []PriceSample) error
	// FetchHistorical retrieves every sample of the given coins with from <= timestamp <= to
	// Rows are not guaranteed to be grouped or ordered
	FetchHistorical(ctx context.Context, coinIDs []string, from, to time.Time) ([]HistoricalPrice, error)
}

// TransactionProvider fetches the transaction history of a wallet
type TransactionProvider interface {
	// Transactions returns the wallet's transactions ordered by OccurredAt
	Transactions(ctx context.Context, walletAddress string) ([]Transaction, error)
}

// MarketDataProvider fetches asset metadata and price history from a market-data API
type MarketDataProvider interface {
	// TopCoins returns the n largest coins by market capitalisation
	TopCoins(ctx context.Context, n int) ([]Coin, error)
	// MarketChart returns the USD price history of a coin over the last days
	MarketChart(ctx context.Context, coinID string, days int) ([]PriceSample, error)
}
