package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/walletpnl/internal/domain"
	"golang.org/x/time/rate"
)

// Defaults matching the CoinGecko keyless tier
const (
	DefaultTopN       = 10
	DefaultDays       = 7
	DefaultRateCalls  = 30
	DefaultRatePeriod = time.Minute
)

// Config controls what a run fetches and how fast
type Config struct {
	TopN       int
	Days       int
	RateCalls  int
	RatePeriod time.Duration
}

// Report summarises a single ingestion run
type Report struct {
	RunID   uuid.UUID
	Coins   int
	Samples int
	Failed  []string
}

// Service downloads market data and stores it in the price database
type Service struct {
	market  domain.MarketDataProvider
	coins   domain.CoinRepository
	prices  domain.PriceRepository
	limiter *rate.Limiter
	cfg     Config
}

// NewService creates a new ingestion Service. Zero config fields fall back to defaults.
func NewService(market domain.MarketDataProvider, coins domain.CoinRepository, prices domain.PriceRepository, cfg Config) *Service {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.RateCalls <= 0 {
		cfg.RateCalls = DefaultRateCalls
	}
	if cfg.RatePeriod <= 0 {
		cfg.RatePeriod = DefaultRatePeriod
	}

	return &Service{
		market:  market,
		coins:   coins,
		prices:  prices,
		limiter: newRateLimit(cfg.RatePeriod, cfg.RateCalls),
		cfg:     cfg,
	}
}

// newRateLimit spreads actions evenly over interval with no burst
func newRateLimit(interval time.Duration, actions int) *rate.Limiter {
	rps := float64(actions) / interval.Seconds()
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Run fetches the top coins and their recent price history.
// A coin whose history cannot be fetched or stored is recorded in Report.Failed
// and the run moves on to the next coin.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New(), Failed: make([]string, 0)}

	log.Printf("[%s] Fetching top %d coins by market cap", report.RunID, s.cfg.TopN)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	coins, err := s.market.TopCoins(ctx, s.cfg.TopN)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top coins: %w", err)
	}

	if err := s.coins.Upsert(ctx, coins); err != nil {
		return nil, fmt.Errorf("failed to store coins: %w", err)
	}
	report.Coins = len(coins)

	for _, coin := range coins {
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		samples, err := s.market.MarketChart(ctx, coin.CoinID, s.cfg.Days)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return report, err
			}
			log.Printf("[%s] Failed to fetch historical data for %s: %v", report.RunID, coin.CoinID, err)
			report.Failed = append(report.Failed, coin.CoinID)
			continue
		}

		if len(samples) == 0 {
			log.Printf("[%s] No historical data for %s", report.RunID, coin.CoinID)
			continue
		}

		if err := s.prices.Insert(ctx, coin.CoinID, samples); err != nil {
			log.Printf("[%s] Failed to store historical data for %s: %v", report.RunID, coin.CoinID, err)
			report.Failed = append(report.Failed, coin.CoinID)
			continue
		}

		report.Samples += len(samples)
		log.Printf("[%s] Stored %d samples for %s", report.RunID, len(samples), coin.CoinID)
	}

	log.Printf("[%s] Ingestion finished: %d coins, %d samples, %d failed",
		report.RunID, report.Coins, report.Samples, len(report.Failed))

	return report, nil
}

// RunEvery runs an ingestion immediately and then once per interval until ctx is done.
// Failed runs are logged and retried on the next tick.
func (s *Service) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid ingestion interval: %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Ingestion run failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
