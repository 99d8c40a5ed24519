package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papertradehq/papertrade/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the paper-trading journal",
	Long: `Query and display journal records from the SQLite database.

Examples:
  papertrade journal trades --days 7
  papertrade journal snapshots --days 1
  papertrade journal trade <trade-id>`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List trades applied within the trailing window",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List performance snapshots within the trailing window",
	Args:  cobra.NoArgs,
	RunE:  runJournalSnapshots,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var (
	journalDBPath string
	journalDays   int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalSnapshotsCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./papertrade.db", "path to SQLite journal DB")
	journalCmd.PersistentFlags().IntVar(&journalDays, "days", 7, "trailing window in days")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	start := time.Now().Add(-time.Duration(journalDays) * 24 * time.Hour)
	recs, err := j.ListTradesBetween(start, time.Now())
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	for _, r := range recs {
		win := ""
		if r.Side == "sell" {
			win = fmt.Sprintf("  winning=%v", r.Winning)
		}
		fmt.Printf("%s  %-4s %s @ %s  basis=%s%s  %s\n",
			r.TradeID, r.Side, r.Quantity, r.Price, r.CostBasis, win,
			r.Time.Format(time.RFC3339))
	}
	fmt.Printf("%d trades\n", len(recs))
	return nil
}

func runJournalSnapshots(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	since := time.Now().Add(-time.Duration(journalDays) * 24 * time.Hour)
	snaps, err := j.ListSnapshotsSince(since)
	if err != nil {
		return fmt.Errorf("query snapshots: %w", err)
	}

	for _, s := range snaps {
		fmt.Printf("%s  balance=%s  total_pl=%s (%s%%)  held=%s @ %s  win_rate=%s%%\n",
			s.Time.Format(time.RFC3339), s.CurrentBalance, s.TotalPL,
			s.PLPercent.StringFixed(2), s.QuantityHeld, s.CurrentPrice,
			s.WinRate.StringFixed(1))
	}
	fmt.Printf("%d snapshots\n", len(snaps))
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Printf("trade:      %s\n", rec.TradeID)
	fmt.Printf("symbol:     %s\n", rec.Symbol)
	fmt.Printf("side:       %s\n", rec.Side)
	fmt.Printf("quantity:   %s\n", rec.Quantity)
	fmt.Printf("price:      %s\n", rec.Price)
	fmt.Printf("cost basis: %s\n", rec.CostBasis)
	if rec.Side == "sell" {
		fmt.Printf("winning:    %v\n", rec.Winning)
	}
	fmt.Printf("time:       %s\n", rec.Time.Format(time.RFC3339))
	return nil
}
