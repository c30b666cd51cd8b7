package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnorderedSeries is returned when price samples are not strictly ascending by timestamp.
var ErrUnorderedSeries = errors.New("price samples are not strictly ordered by timestamp")

// PriceSample is one observed USD price of an asset.
type PriceSample struct {
	Timestamp time.Time
	PriceUSD  decimal.Decimal
}

// HistoricalPrice is a price sample as stored in historical_data,
// tagged with the coin it belongs to.
type HistoricalPrice struct {
	CoinID    string
	Timestamp time.Time
	PriceUSD  decimal.Decimal
}

// Sample drops the coin identifier.
func (h HistoricalPrice) Sample() PriceSample {
	return PriceSample{Timestamp: h.Timestamp, PriceUSD: h.PriceUSD}
}

// PriceSeries is the time-ordered price history of a single asset.
// Between two observations the price is the last known one.
type PriceSeries struct {
	samples []PriceSample
}

// NewPriceSeries builds a series from samples that must already be strictly
// ascending by timestamp. Duplicates are expected to be removed upstream.
func NewPriceSeries(samples []PriceSample) (*PriceSeries, error) {
	for i := 1; i < len(samples); i++ {
		if !samples[i-1].Timestamp.Before(samples[i].Timestamp) {
			return nil, fmt.Errorf("%w: sample %d at %s follows %s",
				ErrUnorderedSeries, i, samples[i].Timestamp.Format(time.RFC3339), samples[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return &PriceSeries{samples: slices.Clone(samples)}, nil
}

// Len returns the number of samples in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.samples)
}

// NearestPriorPrice returns the price at t, or the price of the latest sample
// strictly before t. It returns false when t precedes every sample.
func (s *PriceSeries) NearestPriorPrice(t time.Time) (decimal.Decimal, bool) {
	if s.Len() == 0 {
		return decimal.Zero, false
	}

	i, found := slices.BinarySearchFunc(s.samples, t, func(sample PriceSample, target time.Time) int {
		return sample.Timestamp.Compare(target)
	})
	if found {
		return s.samples[i].PriceUSD, true
	}

	// i is the insertion point, so i-1 is the rightmost sample before t.
	if i == 0 {
		return decimal.Zero, false
	}
	return s.samples[i-1].PriceUSD, true
}
