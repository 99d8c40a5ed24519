package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one applied paper trade, persisted exactly as it was
// executed. CostBasis is the average buy price in effect when the trade was
// applied; Winning is only meaningful for sells and is decided at apply time.
type TradeRecord struct {
	TradeID   string          `json:"trade_id"`
	Symbol    string          `json:"symbol"`
	Side      string          `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Winning   bool            `json:"winning"`
	Time      time.Time       `json:"time"`
}

// Snapshot is an immutable point-in-time copy of account performance,
// sampled on a fixed cadence for historical trend queries.
type Snapshot struct {
	Time            time.Time       `json:"timestamp"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	QuantityHeld    decimal.Decimal `json:"quantity_held"`
	AvgBuyPrice     decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	RealizedPL      decimal.Decimal `json:"realized_pl"`
	UnrealizedPL    decimal.Decimal `json:"unrealized_pl"`
	TotalPL         decimal.Decimal `json:"total_pl"`
	PLPercent       decimal.Decimal `json:"pl_percent"`
	TotalTrades     int             `json:"total_trades"`
	WinningTrades   int             `json:"winning_trades"`
	SellTrades      int             `json:"sell_trades"`
	WinRate         decimal.Decimal `json:"win_rate"`
}

// Journal persists trades and performance snapshots.
//
// Reset clears both tables in a single transaction and is the only way any
// record is ever removed.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordSnapshot(Snapshot) error
	ListTradesBetween(start, end time.Time) ([]TradeRecord, error)
	ListSnapshotsSince(since time.Time) ([]Snapshot, error)
	Reset() error
	Close() error
}
