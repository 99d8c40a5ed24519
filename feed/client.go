// Package feed implements market.PriceSource against a Binance-style public
// REST API. All lookups are bounded by the caller's context plus the client
// timeout, and retried a fixed number of times before surfacing an error.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/papertradehq/papertrade/market"
)

// DefaultBaseURL points at Binance's public market-data API. No API key is
// needed for ticker prices or klines.
const DefaultBaseURL = "https://api.binance.com"

const (
	defaultTimeout = 5 * time.Second
	defaultRetries = 3
	retryBackoff   = 250 * time.Millisecond
)

// Client fetches current prices and candles over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets how many attempts a lookup makes before giving up.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// NewClient creates a feed client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// CurrentPrice returns the latest quoted price for symbol.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if symbol == "" {
		return decimal.Zero, fmt.Errorf("symbol is required")
	}

	q := url.Values{}
	q.Set("symbol", symbol)

	var resp tickerResponse
	if err := c.getJSON(ctx, "/api/v3/ticker/price", q, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("current price %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("current price %s: bad price %q: %w", symbol, resp.Price, err)
	}
	return price, nil
}

// Candles returns up to count OHLC bars for symbol at the given interval,
// ordered oldest first.
func (c *Client) Candles(ctx context.Context, symbol string, interval market.Interval, count int) ([]market.Candle, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if !market.ValidInterval(string(interval)) {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	if count <= 0 {
		count = 100
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", string(interval))
	q.Set("limit", strconv.Itoa(count))

	// Kline rows are heterogeneous arrays:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var rows [][]json.RawMessage
	if err := c.getJSON(ctx, "/api/v3/klines", q, &rows); err != nil {
		return nil, fmt.Errorf("candles %s: %w", symbol, err)
	}

	candles := make([]market.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("candles %s: row %d: %w", symbol, i, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func parseKline(row []json.RawMessage) (market.Candle, error) {
	if len(row) < 6 {
		return market.Candle{}, fmt.Errorf("short kline row (%d fields)", len(row))
	}

	var openMillis int64
	if err := json.Unmarshal(row[0], &openMillis); err != nil {
		return market.Candle{}, fmt.Errorf("open time: %w", err)
	}

	fields := make([]decimal.Decimal, 5)
	for i := 1; i <= 5; i++ {
		var s string
		if err := json.Unmarshal(row[i], &s); err != nil {
			return market.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return market.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		fields[i-1] = d
	}

	return market.Candle{
		Time:   time.UnixMilli(openMillis).UTC(),
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		if lastErr = c.doGet(ctx, path, query, out); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
