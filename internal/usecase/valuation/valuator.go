package valuation

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletpnl/internal/domain"
)

// MissingPriceFunc is called when an asset has no price at or before an instant.
type MissingPriceFunc func(assetID string, at time.Time)

// LogMissingPrice is the default MissingPriceFunc.
func LogMissingPrice(assetID string, at time.Time) {
	log.Printf("No historical price available for %s at/before %s", assetID, at.Format(time.RFC3339))
}

// Valuator prices a balance snapshot against a catalog.
type Valuator struct {
	OnMissingPrice MissingPriceFunc
}

// NewValuator creates a Valuator. A nil onMissing logs the missing prices.
func NewValuator(onMissing MissingPriceFunc) *Valuator {
	if onMissing == nil {
		onMissing = LogMissingPrice
	}
	return &Valuator{OnMissingPrice: onMissing}
}

// ValueAt returns the USD value of the balance at t: the sum over assets of
// quantity times the nearest prior price. An asset without such a price
// contributes zero and is reported through OnMissingPrice.
func (v *Valuator) ValueAt(balance domain.Balance, catalog *PriceCatalog, t time.Time) decimal.Decimal {
	total := decimal.Zero

	for _, assetID := range balance.Assets() {
		price, ok := catalog.Series(assetID).NearestPriorPrice(t)
		if !ok {
			v.missing(assetID, t)
			continue
		}
		total = total.Add(balance[assetID].Mul(price))
	}

	return total
}

func (v *Valuator) missing(assetID string, t time.Time) {
	if v.OnMissingPrice != nil {
		v.OnMissingPrice(assetID, t)
	}
}
