// Package app wires configuration, storage, providers and use cases together
// for the server and CLI binaries.
package app

import (
	"fmt"

	"github.com/simaogato/walletpnl/internal/adapter/provider/allium"
	"github.com/simaogato/walletpnl/internal/adapter/provider/coingecko"
	"github.com/simaogato/walletpnl/internal/adapter/repository/database"
	"github.com/simaogato/walletpnl/internal/config"
	"github.com/simaogato/walletpnl/internal/usecase/ingestion"
	"github.com/simaogato/walletpnl/internal/usecase/pnl"
)

// OpenDB connects to the configured database
func OpenDB(cfg *config.Config) (*database.DB, error) {
	db, err := database.NewDB(cfg.DBDriver, cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// NewPnLService builds the PnL use case on top of the Allium provider and the price store
func NewPnLService(cfg *config.Config, db *database.DB) *pnl.PnLService {
	provider := allium.NewClient(cfg.AlliumQueryURL, cfg.AlliumAPIKey, cfg.HTTPTimeout)
	return pnl.NewPnLService(provider, database.NewPriceRepository(db), cfg.PnLWindow, cfg.PnLStep)
}

// NewIngestionService builds the ingestion use case on top of CoinGecko and the price store
func NewIngestionService(cfg *config.Config, db *database.DB) *ingestion.Service {
	market := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.HTTPTimeout)
	return ingestion.NewService(market, database.NewCoinRepository(db), database.NewPriceRepository(db), ingestion.Config{
		TopN:       cfg.IngestTopN,
		Days:       cfg.IngestDays,
		RateCalls:  cfg.IngestRateCalls,
		RatePeriod: cfg.IngestRatePeriod,
	})
}
