package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papertradehq/papertrade/api"
	"github.com/papertradehq/papertrade/config"
	"github.com/papertradehq/papertrade/engine"
	"github.com/papertradehq/papertrade/feed"
	"github.com/papertradehq/papertrade/internal/logging"
	"github.com/papertradehq/papertrade/journal"
)

var (
	serveConfigPath string
	serveDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine, snapshot sampler, and dashboard API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "./papertrade.yaml", "path to config file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Optional .env for PAPERTRADE_AUTH_TOKEN and friends.
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(serveConfigPath)
	if err != nil {
		return err
	}

	log, err := logging.New(serveDebug)
	if err != nil {
		return err
	}
	defer log.Sync()

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	var feedOpts []feed.Option
	if timeout, _ := cfg.Feed.ParseTimeout(); timeout > 0 {
		feedOpts = append(feedOpts, feed.WithTimeout(timeout))
	}
	if cfg.Feed.Retries > 0 {
		feedOpts = append(feedOpts, feed.WithRetries(cfg.Feed.Retries))
	}
	source := feed.NewClient(cfg.Feed.BaseURL, feedOpts...)

	starting := decimal.NewFromFloat(cfg.Account.StartingBalance)
	eng := engine.New(cfg.Account.Symbol, starting, source, j, log)
	if timeout, _ := cfg.Feed.ParseTimeout(); timeout > 0 {
		eng.SetPriceTimeout(timeout)
	}

	// Warm start: replay persisted trades so balances and the cost basis
	// survive restarts.
	recs, err := j.ListTradesBetween(time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return fmt.Errorf("load journaled trades: %w", err)
	}
	if err := eng.Restore(recs); err != nil {
		return fmt.Errorf("replay journaled trades: %w", err)
	}
	log.Info("engine restored",
		zap.String("symbol", cfg.Account.Symbol),
		zap.Int("trades", len(recs)),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval, err := cfg.Snapshot.ParseInterval()
	if err != nil {
		return err
	}
	sampler := engine.NewSampler(eng, interval, log)
	go sampler.Run(ctx)

	server := api.NewServer(eng, source, cfg.API.AuthToken, cfg.API.AllowedOrigins, starting, log)
	return server.Start(ctx, cfg.API.Addr)
}
