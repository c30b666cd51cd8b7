package valuation

import (
	"testing"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct(t *testing.T) {
	txs := []domain.Transaction{
		{AssetID: asset("bitcoin"), BalanceAfter: dec("1.5"), OccurredAt: at(0)},
		{AssetID: nil, BalanceAfter: dec("42"), OccurredAt: at(1)},
		{AssetID: asset("ethereum"), BalanceAfter: dec("10"), OccurredAt: at(2)},
		{AssetID: asset("bitcoin"), BalanceAfter: dec("0.25"), OccurredAt: at(3)},
		{AssetID: asset("ethereum"), BalanceAfter: dec("12"), OccurredAt: at(5)},
	}

	tests := []struct {
		name string
		asOf int
		want domain.Balance
	}{
		{name: "before every transaction", asOf: -1, want: domain.Balance{}},
		{name: "exactly at first transaction", asOf: 0, want: domain.Balance{"bitcoin": dec("1.5")}},
		{name: "null asset is ignored", asOf: 1, want: domain.Balance{"bitcoin": dec("1.5")}},
		{
			name: "last value wins",
			asOf: 3,
			want: domain.Balance{"bitcoin": dec("0.25"), "ethereum": dec("10")},
		},
		{
			name: "after every transaction",
			asOf: 100,
			want: domain.Balance{"bitcoin": dec("0.25"), "ethereum": dec("12")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconstruct(txs, at(tt.asOf))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconstruct_EmptyLog(t *testing.T) {
	got, err := Reconstruct(nil, at(0))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestReconstruct_AbsoluteNotDelta(t *testing.T) {
	txs := []domain.Transaction{
		{AssetID: asset("bitcoin"), BalanceAfter: dec("3"), OccurredAt: at(0)},
		{AssetID: asset("bitcoin"), BalanceAfter: dec("1"), OccurredAt: at(1)},
	}

	got, err := Reconstruct(txs, at(1))
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(got["bitcoin"]))
}

func TestReconstruct_LaterTransactionsDoNotChangeEarlierBalance(t *testing.T) {
	prefix := []domain.Transaction{
		{AssetID: asset("bitcoin"), BalanceAfter: dec("2"), OccurredAt: at(0)},
		{AssetID: asset("tether"), BalanceAfter: dec("500"), OccurredAt: at(4)},
	}
	want, err := Reconstruct(prefix, at(4))
	require.NoError(t, err)

	extended := append(append([]domain.Transaction{}, prefix...),
		domain.Transaction{AssetID: asset("bitcoin"), BalanceAfter: dec("0"), OccurredAt: at(5)},
		domain.Transaction{AssetID: asset("solana"), BalanceAfter: dec("7"), OccurredAt: at(9)},
	)
	got, err := Reconstruct(extended, at(4))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestReconstruct_SameInstantKeepsLogOrder(t *testing.T) {
	txs := []domain.Transaction{
		{AssetID: asset("bitcoin"), BalanceAfter: dec("1"), OccurredAt: at(2)},
		{AssetID: asset("bitcoin"), BalanceAfter: dec("4"), OccurredAt: at(2)},
	}

	got, err := Reconstruct(txs, at(2))
	require.NoError(t, err)
	assert.True(t, dec("4").Equal(got["bitcoin"]))
}

func TestReconstruct_UnorderedLog(t *testing.T) {
	txs := []domain.Transaction{
		{AssetID: asset("bitcoin"), BalanceAfter: dec("1"), OccurredAt: at(3)},
		{AssetID: asset("bitcoin"), BalanceAfter: dec("2"), OccurredAt: at(1)},
	}

	got, err := Reconstruct(txs, at(10))
	assert.ErrorIs(t, err, domain.ErrUnorderedTransactions)
	assert.Nil(t, got)
}

func TestReconstruct_EmptyAssetIDIsKept(t *testing.T) {
	txs := []domain.Transaction{
		{AssetID: nil, BalanceAfter: dec("9"), OccurredAt: at(0)},
		{AssetID: asset(""), BalanceAfter: dec("5"), OccurredAt: at(1)},
	}

	got, err := Reconstruct(txs, at(10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, dec("5").Equal(got[""]))
}
