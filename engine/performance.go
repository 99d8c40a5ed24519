package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Performance is the full query result consumed by the dashboard.
type Performance struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	TotalPL         decimal.Decimal `json:"total_pl"`
	PLPercent       decimal.Decimal `json:"pl_percent"`
	RealizedPL      decimal.Decimal `json:"realized_pl"`
	UnrealizedPL    decimal.Decimal `json:"unrealized_pl"`
	QuantityHeld    decimal.Decimal `json:"quantity_held"`
	AvgBuyPrice     decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PositionValue   decimal.Decimal `json:"position_value"`
	TotalTrades     int             `json:"total_trades"`
	WinningTrades   int             `json:"winning_trades"`
	SellTrades      int             `json:"sell_trades"`
	WinRate         decimal.Decimal `json:"win_rate"`
	Time            time.Time       `json:"timestamp"`
	Stale           bool            `json:"stale"`
}

type tradeStats struct {
	total    int
	sells    int
	winning  int
}

// computePerformance combines account, position, and counters with a live
// price. A zero starting balance reports 0% rather than propagating the
// undefined division.
func computePerformance(acct Account, pos Position, stats tradeStats, price decimal.Decimal, now time.Time) Performance {
	unrealized := decimal.Zero
	if !pos.QuantityHeld.IsZero() {
		unrealized = price.Sub(pos.AvgBuyPrice).Mul(pos.QuantityHeld)
	}

	positionValue := pos.QuantityHeld.Mul(price)
	totalPL := acct.RealizedPL.Add(unrealized)

	plPercent, err := percentOf(totalPL, acct.StartingBalance)
	if err != nil {
		plPercent = decimal.Zero
	}

	winRate := decimal.Zero
	if stats.sells > 0 {
		winRate = decimal.NewFromInt(int64(stats.winning)).
			Div(decimal.NewFromInt(int64(stats.sells))).
			Mul(hundred)
	}

	return Performance{
		StartingBalance: acct.StartingBalance,
		CurrentBalance:  acct.CashBalance.Add(positionValue),
		TotalPL:         totalPL,
		PLPercent:       plPercent,
		RealizedPL:      acct.RealizedPL,
		UnrealizedPL:    unrealized,
		QuantityHeld:    pos.QuantityHeld,
		AvgBuyPrice:     pos.AvgBuyPrice,
		CurrentPrice:    price,
		PositionValue:   positionValue,
		TotalTrades:     stats.total,
		WinningTrades:   stats.winning,
		SellTrades:      stats.sells,
		WinRate:         winRate,
		Time:            now,
	}
}

func percentOf(part, whole decimal.Decimal) (decimal.Decimal, error) {
	if whole.IsZero() {
		return decimal.Zero, ErrDivisionUndefined
	}
	return part.Div(whole).Mul(hundred), nil
}
