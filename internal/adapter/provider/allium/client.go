package allium

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/simaogato/walletpnl/internal/domain"
)

// DefaultQueryURL is the saved Allium explorer query returning a wallet's balance history
const DefaultQueryURL = "https://api.allium.so/api/v1/explorer/queries/UWHFUe3BPTFpd7EDVIiI/run"

const maxResponseSize = 32 << 20

// Timestamp layouts accepted for block_timestamp, most common first
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Client implements domain.TransactionProvider against the Allium explorer API.
type Client struct {
	queryURL string
	apiKey   string
	client   *http.Client
}

// NewClient creates a new Allium client
func NewClient(queryURL, apiKey string, timeout time.Duration) *Client {
	if queryURL == "" {
		queryURL = DefaultQueryURL
	}
	return &Client{
		queryURL: queryURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transactions runs the balance-history query for a wallet and returns its
// transactions ordered by block timestamp.
func (c *Client) Transactions(ctx context.Context, walletAddress string) ([]domain.Transaction, error) {
	reqBody, err := json.Marshal(map[string]string{"address": walletAddress})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: allium request failed: %w", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read allium response: %w", domain.ErrProviderFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: allium api returned status: %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	txs, err := parseTransactions(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	return txs, nil
}

// parseTransactions decodes the "data" array of a query response.
// Numbers are kept as their JSON text so balances never go through float64.
func parseTransactions(body []byte) ([]domain.Transaction, error) {
	data, dataType, _, err := jsonparser.Get(body, "data")
	if err != nil || dataType != jsonparser.Array {
		return nil, errors.New("expected 'data' array in the allium response")
	}

	txs := make([]domain.Transaction, 0)
	var parseErr error
	index := 0

	_, err = jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil {
			parseErr = err
			return
		}

		tx, err := parseRecord(value, vt)
		if err != nil {
			parseErr = fmt.Errorf("invalid record %d: %w", index, err)
			return
		}
		txs = append(txs, tx)
		index++
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode 'data': %w", err)
	}
	if parseErr != nil {
		return nil, parseErr
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].OccurredAt.Before(txs[j].OccurredAt)
	})

	return txs, nil
}

func parseRecord(value []byte, vt jsonparser.ValueType) (domain.Transaction, error) {
	var tx domain.Transaction

	if vt != jsonparser.Object {
		return tx, fmt.Errorf("expected object, got %s", vt)
	}

	tsRaw, err := jsonparser.GetString(value, "block_timestamp")
	if err != nil {
		return tx, fmt.Errorf("missing block_timestamp: %w", err)
	}
	occurredAt, err := parseTimestamp(tsRaw)
	if err != nil {
		return tx, err
	}
	tx.OccurredAt = occurredAt

	if addr, err := jsonparser.GetString(value, "token_address"); err == nil {
		tx.TokenAddress = addr
	}

	raw, idType, _, err := jsonparser.Get(value, "token_id")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return tx, fmt.Errorf("invalid token_id: %w", err)
	}
	switch idType {
	case jsonparser.String:
		id, err := jsonparser.ParseString(raw)
		if err != nil {
			return tx, fmt.Errorf("invalid token_id: %w", err)
		}
		tx.AssetID = &id
	case jsonparser.Null, jsonparser.NotExist:
		// Rows without a token id do not change balances
		return tx, nil
	default:
		return tx, fmt.Errorf("token_id must be a string or null, got %s", idType)
	}

	balance, err := parseDecimal(value, "balance")
	if err != nil {
		return tx, err
	}
	tx.BalanceAfter = balance

	return tx, nil
}

// parseDecimal reads a JSON number or numeric string without float conversion
func parseDecimal(value []byte, key string) (decimal.Decimal, error) {
	raw, vt, _, err := jsonparser.Get(value, key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("missing %s: %w", key, err)
	}

	text := string(raw)
	switch vt {
	case jsonparser.Number:
	case jsonparser.String:
		if text, err = jsonparser.ParseString(raw); err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
		}
	default:
		return decimal.Zero, fmt.Errorf("%s must be a number or numeric string, got %s", key, vt)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, text, err)
	}
	return d, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid block_timestamp %q", raw)
}
