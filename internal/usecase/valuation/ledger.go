package valuation

import (
	"fmt"
	"time"

	"github.com/simaogato/walletpnl/internal/domain"
)

// Reconstruct replays an ordered transaction log and returns the balance held at asOf.
//
// Logic:
//   - BalanceAfter is an absolute balance, so the last transaction of an asset wins
//   - Transactions without an asset are skipped
//   - The scan stops at the first transaction after asOf (the log is ordered)
//
// Returns domain.ErrUnorderedTransactions if the scanned part of the log goes back in time.
func Reconstruct(txs []domain.Transaction, asOf time.Time) (domain.Balance, error) {
	balance := make(domain.Balance)

	for i, tx := range txs {
		if i > 0 && tx.OccurredAt.Before(txs[i-1].OccurredAt) {
			return nil, fmt.Errorf("%w: transaction %d at %s precedes %s", domain.ErrUnorderedTransactions,
				i, tx.OccurredAt.Format(time.RFC3339), txs[i-1].OccurredAt.Format(time.RFC3339))
		}

		if tx.OccurredAt.After(asOf) {
			break
		}

		if !tx.HasAsset() {
			continue
		}
		balance[*tx.AssetID] = tx.BalanceAfter
	}

	return balance, nil
}
