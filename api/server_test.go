package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/papertradehq/papertrade/engine"
	"github.com/papertradehq/papertrade/feed"
	"github.com/papertradehq/papertrade/journal"
	"github.com/papertradehq/papertrade/market"
)

const testToken = "test-token"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServer(t *testing.T) (*Server, *feed.Static, *engine.Engine) {
	t.Helper()

	src := feed.NewStatic(d("100"))
	j := journal.NewMemory()
	e := engine.New("BTCUSDT", d("1000"), src, j, zap.NewNop())
	s := NewServer(e, src, testToken, nil, d("1000"), zap.NewNop())
	return s, src, e
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestServer_Performance(t *testing.T) {
	t.Parallel()

	s, _, e := newTestServer(t)

	_, err := e.Buy(context.Background(), d("2"))
	require.NoError(t, err)

	rr := do(t, s, "GET", "/paper-trading/performance", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var perf map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &perf))

	for _, field := range []string{
		"starting_balance", "current_balance", "total_pl", "pl_percent",
		"realized_pl", "unrealized_pl", "quantity_held", "avg_buy_price",
		"current_price", "position_value", "total_trades", "winning_trades",
		"sell_trades", "win_rate",
	} {
		assert.Contains(t, perf, field)
	}
	assert.JSONEq(t, `1000`, string(perf["starting_balance"]))
	assert.JSONEq(t, `2`, string(perf["quantity_held"]))
}

func TestServer_Performance_StaleOnFeedFailure(t *testing.T) {
	t.Parallel()

	s, src, _ := newTestServer(t)

	// Prime the cache, then break the feed.
	rr := do(t, s, "GET", "/paper-trading/performance", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	src.Fail(errors.New("feed down"))
	rr = do(t, s, "GET", "/paper-trading/performance", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var perf struct {
		Stale bool `json:"stale"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &perf))
	assert.True(t, perf.Stale)
}

func TestServer_Performance_UnavailableWithNoHistory(t *testing.T) {
	t.Parallel()

	s, src, _ := newTestServer(t)
	src.Fail(errors.New("feed down"))

	rr := do(t, s, "GET", "/paper-trading/performance", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServer_History(t *testing.T) {
	t.Parallel()

	s, _, e := newTestServer(t)
	require.NoError(t, e.Sample(context.Background()))

	rr := do(t, s, "GET", "/paper-trading/history?days=7", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		History []journal.Snapshot `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.History, 1)
}

func TestServer_History_EmptyIsList(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	rr := do(t, s, "GET", "/paper-trading/history", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"history":[]}`, rr.Body.String())
}

func TestServer_Trade(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	rr := do(t, s, "POST", "/paper-trading/trade", testToken,
		map[string]any{"side": "buy", "quantity": "1.5"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var trade engine.Trade
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &trade))
	assert.Equal(t, engine.SideBuy, trade.Side)
	assert.NotEmpty(t, trade.ID)
}

func TestServer_Trade_Oversell(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	rr := do(t, s, "POST", "/paper-trading/trade", testToken,
		map[string]any{"side": "sell", "quantity": "1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid trade")
}

func TestServer_Trade_BadSide(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	rr := do(t, s, "POST", "/paper-trading/trade", testToken,
		map[string]any{"side": "hold", "quantity": "1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_Reset(t *testing.T) {
	t.Parallel()

	s, _, e := newTestServer(t)

	_, err := e.Buy(context.Background(), d("3"))
	require.NoError(t, err)

	rr := do(t, s, "POST", "/paper-trading/reset", testToken,
		map[string]any{"starting_balance": "2500"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reset"`)

	rr = do(t, s, "GET", "/paper-trading/performance", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var perf struct {
		StartingBalance decimal.Decimal `json:"starting_balance"`
		TotalTrades     int             `json:"total_trades"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &perf))
	assert.True(t, d("2500").Equal(perf.StartingBalance))
	assert.Equal(t, 0, perf.TotalTrades)
}

func TestServer_AuthRequired(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing_token", ""},
		{"wrong_token", "nope"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := do(t, s, "POST", "/paper-trading/reset", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	// Reads stay open.
	rr := do(t, s, "GET", "/paper-trading/performance", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_NoTokenConfiguredDisablesWrites(t *testing.T) {
	t.Parallel()

	src := feed.NewStatic(d("100"))
	e := engine.New("BTCUSDT", d("1000"), src, journal.NewMemory(), zap.NewNop())
	s := NewServer(e, src, "", nil, d("1000"), zap.NewNop())

	rr := do(t, s, "POST", "/paper-trading/reset", "anything", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestServer_Candles(t *testing.T) {
	t.Parallel()

	s, src, _ := newTestServer(t)
	src.SetCandles([]market.Candle{
		{Open: d("100"), High: d("110"), Low: d("95"), Close: d("105")},
		{Open: d("105"), High: d("120"), Low: d("104"), Close: d("118")},
	})

	rr := do(t, s, "GET", "/market/candles?interval=1h&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var candles []market.Candle
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &candles))
	assert.Len(t, candles, 2)

	rr = do(t, s, "GET", "/market/candles?interval=9x", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	rr := do(t, s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
