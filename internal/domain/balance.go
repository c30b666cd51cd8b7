package domain

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Balance maps an asset identifier to the quantity held at a fixed instant.
type Balance map[string]decimal.Decimal

// Assets returns the asset identifiers of the balance in lexical order.
func (b Balance) Assets() []string {
	return slices.Sorted(maps.Keys(b))
}
