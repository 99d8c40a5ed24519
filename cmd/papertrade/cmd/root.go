package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "Paper-trading accounting engine with a dashboard API",
	Long: `Papertrade tracks a simulated trading account against live market
prices: it applies buy/sell fills at quoted prices, maintains a
weighted-average cost basis, attributes realized and unrealized P/L, and
samples periodic performance snapshots for historical charting.

It serves the REST API consumed by the dashboard (performance summary,
snapshot history, candle data) and persists everything to SQLite.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
