package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PnLPoint is the profit or loss of a wallet at Timestamp relative to the
// value it had at the start of the window.
type PnLPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	PnL       decimal.Decimal `json:"pnl"`
}
