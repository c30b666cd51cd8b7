package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return base.Add(time.Duration(hours) * time.Hour)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func asset(id string) *string {
	return &id
}

func row(coinID string, hours int, price string) domain.HistoricalPrice {
	return domain.HistoricalPrice{CoinID: coinID, Timestamp: at(hours), PriceUSD: dec(price)}
}

func mustCatalog(t *testing.T, assetIDs []string, rows ...domain.HistoricalPrice) *PriceCatalog {
	t.Helper()
	c, err := NewCatalog(assetIDs, rows)
	require.NoError(t, err)
	return c
}

// missingRecorder collects missing-price reports
type missingRecorder struct {
	calls []string
}

func (r *missingRecorder) record(assetID string, when time.Time) {
	r.calls = append(r.calls, assetID+"@"+when.Format(time.RFC3339))
}

// MockPriceRepository is a mock implementation of PriceRepository for testing
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) Insert(ctx context.Context, coinID string, samples []domain.PriceSample) error {
	args := m.Called(ctx, coinID, samples)
	return args.Error(0)
}

func (m *MockPriceRepository) FetchHistorical(ctx context.Context, coinIDs []string, from, to time.Time) ([]domain.HistoricalPrice, error) {
	args := m.Called(ctx, coinIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoricalPrice), args.Error(1)
}
