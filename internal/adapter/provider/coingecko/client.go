package coingecko

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletpnl/internal/domain"
)

// DefaultBaseURL is the public CoinGecko v3 API
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

const maxResponseSize = 32 << 20

// Client implements domain.MarketDataProvider against the CoinGecko API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new CoinGecko client. An empty apiKey uses the keyless tier.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// TopCoins returns the n largest coins by market capitalisation
func (c *Client) TopCoins(ctx context.Context, n int) ([]domain.Coin, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid coin count: %d", n)
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(n))
	params.Set("page", "1")

	body, err := c.get(ctx, "/coins/markets", params)
	if err != nil {
		return nil, err
	}

	coins := make([]domain.Coin, 0, n)
	var parseErr error

	_, err = jsonparser.ArrayEach(body, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil || vt != jsonparser.Object {
			parseErr = errors.New("expected coin object")
			return
		}

		var coin domain.Coin
		coin.CoinID, _ = jsonparser.GetString(value, "id")
		coin.Name, _ = jsonparser.GetString(value, "name")
		coin.Symbol, _ = jsonparser.GetString(value, "symbol")
		if err := coin.Validate(); err != nil {
			parseErr = fmt.Errorf("invalid coin %q: %w", coin.CoinID, err)
			return
		}
		coins = append(coins, coin)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode coins/markets: %w", domain.ErrProviderFailure, err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, parseErr)
	}

	return coins, nil
}

// MarketChart returns the USD price history of a coin over the last days days
func (c *Client) MarketChart(ctx context.Context, coinID string, days int) ([]domain.PriceSample, error) {
	if coinID == "" {
		return nil, errors.New("coin id cannot be empty")
	}
	if days <= 0 {
		return nil, fmt.Errorf("invalid day count: %d", days)
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	body, err := c.get(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", params)
	if err != nil {
		return nil, err
	}

	samples, err := parsePrices(body)
	if err != nil {
		return nil, fmt.Errorf("%w: market chart for %s: %w", domain.ErrProviderFailure, coinID, err)
	}

	return samples, nil
}

// parsePrices decodes the [[unix_ms, price], ...] pairs of a market_chart response
func parsePrices(body []byte) ([]domain.PriceSample, error) {
	prices, vt, _, err := jsonparser.Get(body, "prices")
	if err != nil || vt != jsonparser.Array {
		return nil, errors.New("expected 'prices' array")
	}

	samples := make([]domain.PriceSample, 0)
	var parseErr error

	_, err = jsonparser.ArrayEach(prices, func(pair []byte, vt jsonparser.ValueType, _ int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil || vt != jsonparser.Array {
			parseErr = errors.New("expected [timestamp, price] pair")
			return
		}

		ms, err := jsonparser.GetInt(pair, "[0]")
		if err != nil {
			parseErr = fmt.Errorf("invalid timestamp: %w", err)
			return
		}
		raw, pt, _, err := jsonparser.Get(pair, "[1]")
		if err != nil {
			parseErr = fmt.Errorf("missing price: %w", err)
			return
		}
		if pt == jsonparser.Null {
			// CoinGecko reports gaps as null prices
			return
		}
		if pt != jsonparser.Number {
			parseErr = fmt.Errorf("price must be a number, got %s", pt)
			return
		}
		price, err := decimal.NewFromString(string(raw))
		if err != nil {
			parseErr = fmt.Errorf("invalid price %q: %w", raw, err)
			return
		}

		samples = append(samples, domain.PriceSample{
			Timestamp: time.UnixMilli(ms).UTC(),
			PriceUSD:  price,
		})
	})
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return samples, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("x_cg_demo_api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko request failed: %w", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read coingecko response: %w", domain.ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: coingecko api returned status: %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	return body, nil
}
