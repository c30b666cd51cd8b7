package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/simaogato/walletpnl/internal/domain"
)

// PriceCatalog holds one price series per asset of a balance snapshot.
// It is built once per valuation request and never modified afterwards.
type PriceCatalog struct {
	series map[string]*domain.PriceSeries
}

// NewCatalog groups historical rows by coin and builds a series for every
// requested asset. Assets without rows get an empty series; rows of assets
// that were not requested are ignored.
func NewCatalog(assetIDs []string, rows []domain.HistoricalPrice) (*PriceCatalog, error) {
	grouped := make(map[string][]domain.PriceSample, len(assetIDs))
	for _, id := range assetIDs {
		grouped[id] = []domain.PriceSample{}
	}

	for _, row := range rows {
		if _, ok := grouped[row.CoinID]; !ok {
			continue
		}
		grouped[row.CoinID] = append(grouped[row.CoinID], row.Sample())
	}

	catalog := &PriceCatalog{series: make(map[string]*domain.PriceSeries, len(grouped))}
	for id, samples := range grouped {
		// The store does not promise any order
		sort.SliceStable(samples, func(i, j int) bool {
			return samples[i].Timestamp.Before(samples[j].Timestamp)
		})

		series, err := domain.NewPriceSeries(samples)
		if err != nil {
			return nil, fmt.Errorf("failed to build price series for %s: %w", id, err)
		}
		catalog.series[id] = series
	}

	return catalog, nil
}

// LoadCatalog fetches every sample of the given assets between from and to in a
// single batch and builds the catalog from it.
func LoadCatalog(ctx context.Context, repo domain.PriceRepository, assetIDs []string, from, to time.Time) (*PriceCatalog, error) {
	rows, err := repo.FetchHistorical(ctx, assetIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical prices: %w", err)
	}

	return NewCatalog(assetIDs, rows)
}

// Series returns the price series of an asset, or nil if the asset is not in the catalog.
func (c *PriceCatalog) Series(assetID string) *domain.PriceSeries {
	return c.series[assetID]
}

// Len returns the number of assets in the catalog.
func (c *PriceCatalog) Len() int {
	return len(c.series)
}
