package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnorderedTransactions is returned when a transaction log is not
// non-decreasing in OccurredAt.
var ErrUnorderedTransactions = errors.New("transactions are not ordered by time")

// Transaction represents one entry of a wallet's transaction history
// as reported by the transaction provider.
type Transaction struct {
	AssetID      *string         // NULL for entries that do not move a priced asset (e.g. native fee rows)
	TokenAddress string          // Contract address, informational only
	BalanceAfter decimal.Decimal // ABSOLUTE balance of AssetID once the transaction settled
	OccurredAt   time.Time
}

// HasAsset reports whether the transaction carries an asset identifier.
// Only a NULL identifier is skipped; an empty string is still an identifier.
func (t Transaction) HasAsset() bool {
	return t.AssetID != nil
}
