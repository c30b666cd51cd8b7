package valuation

import (
	"errors"
	"time"

	"github.com/simaogato/walletpnl/internal/domain"
)

// DefaultStep is the spacing of PnL points.
const DefaultStep = time.Hour

var (
	ErrInvalidStep   = errors.New("step must be positive")
	ErrInvalidWindow = errors.New("window end must not precede its start")
)

// Generator produces a PnL time series by revaluing the same balance at evenly
// spaced instants.
type Generator struct {
	Valuator *Valuator
}

// NewGenerator creates a new Generator instance
func NewGenerator(valuator *Valuator) *Generator {
	return &Generator{Valuator: valuator}
}

// Generate values the balance at start, start+step, ... up to and including end
// and returns each value minus the value at start. The first point is always zero;
// end is only part of the series when end-start is a multiple of step.
func (g *Generator) Generate(balance domain.Balance, catalog *PriceCatalog, start, end time.Time, step time.Duration) ([]domain.PnLPoint, error) {
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	baseline := g.Valuator.ValueAt(balance, catalog, start)
	points := make([]domain.PnLPoint, 0, int(end.Sub(start)/step)+1)

	for current := start; !current.After(end); current = current.Add(step) {
		value := g.Valuator.ValueAt(balance, catalog, current)
		points = append(points, domain.PnLPoint{
			Timestamp: current,
			PnL:       value.Sub(baseline),
		})
	}

	return points, nil
}
