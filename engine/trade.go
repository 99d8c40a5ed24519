package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a paper trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is a known trade side.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade is one immutable ledger entry. CostBasis captures the average buy
// price in effect at the moment the trade was applied; for sells, Winning is
// decided against that basis once and never recomputed, since the average
// drifts with later buys.
type Trade struct {
	ID        string          `json:"id"`
	Side      Side            `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Time      time.Time       `json:"time"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Winning   bool            `json:"winning"`
}
