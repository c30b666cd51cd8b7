package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_GroupsAndSorts(t *testing.T) {
	rows := []domain.HistoricalPrice{
		row("ethereum", 2, "3100"),
		row("bitcoin", 1, "61000"),
		row("ethereum", 0, "3000"),
		row("dogecoin", 0, "0.1"), // not requested
		row("bitcoin", 0, "60000"),
	}

	c := mustCatalog(t, []string{"bitcoin", "ethereum", "solana"}, rows...)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Series("bitcoin").Len())
	assert.Equal(t, 2, c.Series("ethereum").Len())
	assert.Equal(t, 0, c.Series("solana").Len())
	assert.Nil(t, c.Series("dogecoin"))

	price, ok := c.Series("ethereum").NearestPriorPrice(at(1))
	assert.True(t, ok)
	assert.True(t, dec("3000").Equal(price))

	_, ok = c.Series("solana").NearestPriorPrice(at(1))
	assert.False(t, ok)
}

func TestNewCatalog_DuplicateTimestamp(t *testing.T) {
	_, err := NewCatalog([]string{"bitcoin"}, []domain.HistoricalPrice{
		row("bitcoin", 1, "1"),
		row("bitcoin", 1, "2"),
	})
	assert.ErrorIs(t, err, domain.ErrUnorderedSeries)
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPriceRepository)

	ids := []string{"bitcoin"}
	repo.On("FetchHistorical", ctx, ids, at(0), at(24)).
		Return([]domain.HistoricalPrice{row("bitcoin", 0, "60000")}, nil).Once()

	c, err := LoadCatalog(ctx, repo, ids, at(0), at(24))

	require.NoError(t, err)
	assert.Equal(t, 1, c.Series("bitcoin").Len())
	repo.AssertExpectations(t)
}

func TestLoadCatalog_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPriceRepository)

	repo.On("FetchHistorical", ctx, []string{"bitcoin"}, at(0), at(24)).
		Return(nil, errors.New("connection refused"))

	c, err := LoadCatalog(ctx, repo, []string{"bitcoin"}, at(0), at(24))

	assert.Nil(t, c)
	assert.ErrorContains(t, err, "failed to fetch historical prices")
	assert.ErrorContains(t, err, "connection refused")
}
