package domain

import (
	"errors"
	"strings"
)

// Coin represents asset metadata tracked by the ingestion job.
// CoinID is the market-data identifier (e.g. "bitcoin") and is the same
// identifier transactions carry in AssetID.
type Coin struct {
	CoinID string
	Name   string
	Symbol string
}

// Validate ensures the coin adheres to domain rules
// Returns an error if validation fails
func (c *Coin) Validate() error {
	if strings.TrimSpace(c.CoinID) == "" {
		return errors.New("coin id cannot be empty")
	}

	if c.Name == "" {
		return errors.New("coin name cannot be empty")
	}

	if c.Symbol == "" {
		return errors.New("coin symbol cannot be empty")
	}

	return nil
}
