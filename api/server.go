// Package api exposes the paper-trading query surface over REST: the
// performance summary, snapshot history, the trade ledger, candle
// passthrough for the chart, and the authenticated trade/reset operations.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/papertradehq/papertrade/engine"
	"github.com/papertradehq/papertrade/market"
)

func init() {
	// The dashboard does arithmetic on these fields; serialize decimals as
	// JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Server handles the REST API consumed by the dashboard.
type Server struct {
	engine          *engine.Engine
	source          market.PriceSource
	log             *zap.Logger
	router          *mux.Router
	authToken       string
	allowedOrigins  []string
	defaultStarting decimal.Decimal
}

// NewServer wires the routes. authToken guards the mutating endpoints; an
// empty token disables them entirely rather than leaving them open.
func NewServer(e *engine.Engine, src market.PriceSource, authToken string, allowedOrigins []string, defaultStarting decimal.Decimal, log *zap.Logger) *Server {
	s := &Server{
		engine:          e,
		source:          src,
		log:             log,
		router:          mux.NewRouter(),
		authToken:       authToken,
		allowedOrigins:  allowedOrigins,
		defaultStarting: defaultStarting,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	pt := s.router.PathPrefix("/paper-trading").Subrouter()
	pt.HandleFunc("/performance", s.handlePerformance).Methods("GET")
	pt.HandleFunc("/history", s.handleHistory).Methods("GET")
	pt.HandleFunc("/trades", s.handleTrades).Methods("GET")
	pt.Handle("/trade", s.requireAuth(http.HandlerFunc(s.handleTrade))).Methods("POST")
	pt.Handle("/reset", s.requireAuth(http.HandlerFunc(s.handleReset))).Methods("POST")

	s.router.HandleFunc("/market/candles", s.handleCandles).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler (CORS + logging).
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.logRequests(s.router))
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
