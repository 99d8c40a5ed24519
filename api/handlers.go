package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/papertradehq/papertrade/engine"
	"github.com/papertradehq/papertrade/journal"
	"github.com/papertradehq/papertrade/market"
)

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	History []journal.Snapshot `json:"history"`
}

type tradesResponse struct {
	Trades []engine.Trade `json:"trades"`
}

type tradeRequest struct {
	Side     string          `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
}

type resetRequest struct {
	StartingBalance *decimal.Decimal `json:"starting_balance,omitempty"`
}

type resetResponse struct {
	Status          string          `json:"status"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := s.engine.Performance(r.Context())
	if err != nil {
		// No reading has ever succeeded; there is nothing stale to serve.
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.writeJSON(w, http.StatusOK, perf)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)

	snaps, err := s.engine.Snapshots(days)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if snaps == nil {
		snaps = []journal.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{History: snaps})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	from := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	trades := s.engine.Trades(from, time.Time{})
	s.writeJSON(w, http.StatusOK, tradesResponse{Trades: trades})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var trade engine.Trade
	var err error
	switch engine.Side(strings.ToLower(req.Side)) {
	case engine.SideBuy:
		trade, err = s.engine.Buy(r.Context(), req.Quantity)
	case engine.SideSell:
		trade, err = s.engine.Sell(r.Context(), req.Quantity)
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("side must be buy or sell"))
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidTrade):
			s.writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, engine.ErrPriceUnavailable):
			s.writeError(w, http.StatusServiceUnavailable, err)
		default:
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	starting := s.defaultStarting

	if r.Body != nil && r.ContentLength != 0 {
		var req resetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.StartingBalance != nil {
			starting = *req.StartingBalance
		}
	}

	if err := s.engine.Reset(starting); err != nil {
		if errors.Is(err, engine.ErrInvalidTrade) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resetResponse{
		Status:          "reset",
		StartingBalance: starting,
	})
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = s.engine.Symbol()
	}

	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = string(market.H1)
	}
	if !market.ValidInterval(interval) {
		s.writeError(w, http.StatusBadRequest, errors.New("unsupported interval"))
		return
	}

	limit := queryInt(r, "limit", 100)

	candles, err := s.source.Candles(r.Context(), symbol, market.Interval(interval), limit)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, http.StatusOK, candles)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAuth guards mutating endpoints with a bearer token. A server
// configured without a token refuses these endpoints outright.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			s.writeError(w, http.StatusForbidden, errors.New("mutating endpoints disabled: no auth token configured"))
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, errors.New("invalid or missing bearer token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
