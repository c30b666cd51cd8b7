package pnl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/simaogato/walletpnl/internal/domain"
	"github.com/simaogato/walletpnl/internal/usecase/valuation"
)

// DefaultWindow is how far back a PnL series reaches
const DefaultWindow = 7 * 24 * time.Hour

// Result is the PnL series of a wallet
type Result struct {
	WalletAddress string
	Points        []domain.PnLPoint
	MissingPrices int
	AssetsValued  int
}

// PnLService handles wallet PnL calculations
type PnLService struct {
	Transactions domain.TransactionProvider
	Prices       domain.PriceRepository

	// Window and Step shape the series; Now is the clock the window ends at.
	Window time.Duration
	Step   time.Duration
	Now    func() time.Time
}

// NewPnLService creates a new PnLService instance.
// Non-positive window or step fall back to the defaults.
func NewPnLService(transactions domain.TransactionProvider, prices domain.PriceRepository, window, step time.Duration) *PnLService {
	if window <= 0 {
		window = DefaultWindow
	}
	if step <= 0 {
		step = valuation.DefaultStep
	}
	return &PnLService{
		Transactions: transactions,
		Prices:       prices,
		Window:       window,
		Step:         step,
		Now:          time.Now,
	}
}

// CalculatePnL computes the hourly PnL of a wallet over the trailing window.
// Logic:
//   - Balance: replay the wallet's transactions up to the window start
//   - Catalog: one batch load of the prices of the held assets inside the window
//   - Series: revalue the starting balance at every step, relative to the window start
func (s *PnLService) CalculatePnL(ctx context.Context, walletAddress string) (*Result, error) {
	address, err := domain.NormalizeWalletAddress(walletAddress)
	if err != nil {
		return nil, err
	}

	// Indexers store EVM addresses in lower case
	txs, err := s.Transactions.Transactions(ctx, strings.ToLower(address))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	end := s.Now().UTC()
	start := end.Add(-s.Window)

	balance, err := valuation.Reconstruct(txs, start)
	if err != nil {
		return nil, err
	}

	catalog, err := valuation.LoadCatalog(ctx, s.Prices, balance.Assets(), start, end)
	if err != nil {
		return nil, err
	}

	missing := 0
	valuator := valuation.NewValuator(func(assetID string, at time.Time) {
		missing++
		valuation.LogMissingPrice(assetID, at)
	})

	points, err := valuation.NewGenerator(valuator).Generate(balance, catalog, start, end, s.Step)
	if err != nil {
		return nil, err
	}

	return &Result{
		WalletAddress: address,
		Points:        points,
		MissingPrices: missing,
		AssetsValued:  len(balance),
	}, nil
}
