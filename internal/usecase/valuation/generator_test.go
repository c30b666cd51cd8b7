package valuation

import (
	"testing"
	"time"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_HourlySeries(t *testing.T) {
	catalog := mustCatalog(t, []string{"bitcoin"},
		row("bitcoin", 0, "100"),
		row("bitcoin", 2, "110"),
		row("bitcoin", 3, "90"),
	)
	balance := domain.Balance{"bitcoin": dec("2")}
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(balance, catalog, at(0), at(4), DefaultStep)
	require.NoError(t, err)

	want := []string{"0", "0", "20", "-20", "-20"}
	require.Len(t, points, len(want))
	for i, p := range points {
		assert.Equal(t, at(i), p.Timestamp)
		assert.True(t, dec(want[i]).Equal(p.PnL), "point %d: got %s want %s", i, p.PnL, want[i])
	}
}

func TestGenerate_FirstPointIsZero(t *testing.T) {
	catalog := mustCatalog(t, []string{"bitcoin"}, row("bitcoin", -10, "123.45"), row("bitcoin", 1, "1"))
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{"bitcoin": dec("3.3")}, catalog, at(0), at(3), time.Hour)
	require.NoError(t, err)

	require.NotEmpty(t, points)
	assert.Equal(t, at(0), points[0].Timestamp)
	assert.True(t, points[0].PnL.IsZero())
}

func TestGenerate_StepDoesNotDivideWindow(t *testing.T) {
	catalog := mustCatalog(t, nil)
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{}, catalog, at(0), at(0).Add(150*time.Minute), time.Hour)
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, at(2), points[2].Timestamp)
}

func TestGenerate_EndIncludedOnExactMultiple(t *testing.T) {
	catalog := mustCatalog(t, nil)
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{}, catalog, at(0), at(168), DefaultStep)
	require.NoError(t, err)

	require.Len(t, points, 169)
	assert.Equal(t, at(168), points[168].Timestamp)
}

func TestGenerate_StartEqualsEnd(t *testing.T) {
	catalog := mustCatalog(t, nil)
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{}, catalog, at(0), at(0), DefaultStep)
	require.NoError(t, err)
	require.Len(t, points, 1)
}

func TestGenerate_StepWiderThanWindow(t *testing.T) {
	catalog := mustCatalog(t, []string{"bitcoin"}, row("bitcoin", 0, "100"))
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{"bitcoin": dec("1")}, catalog, at(0), at(1), 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, at(0), points[0].Timestamp)
	assert.True(t, points[0].PnL.IsZero())
}

func TestGenerate_EmptyStartingBalance(t *testing.T) {
	// No holdings at start: baseline is 0 and every point is 0
	catalog := mustCatalog(t, nil)
	g := NewGenerator(NewValuator(nil))

	points, err := g.Generate(domain.Balance{}, catalog, at(0), at(5), DefaultStep)
	require.NoError(t, err)

	require.Len(t, points, 6)
	for _, p := range points {
		assert.True(t, p.PnL.IsZero())
	}
}

func TestGenerate_ZeroBaselinePnLEqualsValue(t *testing.T) {
	// Prices only start after the window start, so the baseline is 0 and
	// every later point equals the total value at that instant.
	catalog := mustCatalog(t, []string{"bitcoin"}, row("bitcoin", 2, "50"), row("bitcoin", 3, "60"))
	rec := &missingRecorder{}
	g := NewGenerator(NewValuator(rec.record))

	points, err := g.Generate(domain.Balance{"bitcoin": dec("2")}, catalog, at(0), at(3), DefaultStep)
	require.NoError(t, err)

	want := []string{"0", "0", "100", "120"}
	for i, p := range points {
		assert.True(t, dec(want[i]).Equal(p.PnL), "point %d: got %s", i, p.PnL)
	}
	assert.NotEmpty(t, rec.calls)
}

func TestGenerate_EmptySeriesStillCompletes(t *testing.T) {
	catalog := mustCatalog(t, []string{"bitcoin", "ghost"}, row("bitcoin", 0, "10"), row("bitcoin", 1, "20"))
	rec := &missingRecorder{}
	g := NewGenerator(NewValuator(rec.record))

	points, err := g.Generate(domain.Balance{"bitcoin": dec("1"), "ghost": dec("5")}, catalog, at(0), at(1), DefaultStep)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.True(t, dec("10").Equal(points[1].PnL))
	// baseline + one warning per point
	assert.Len(t, rec.calls, 3)
}

func TestGenerate_InvalidArguments(t *testing.T) {
	catalog := mustCatalog(t, nil)
	g := NewGenerator(NewValuator(nil))

	_, err := g.Generate(domain.Balance{}, catalog, at(0), at(1), 0)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = g.Generate(domain.Balance{}, catalog, at(0), at(1), -time.Hour)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = g.Generate(domain.Balance{}, catalog, at(1), at(0), time.Hour)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
