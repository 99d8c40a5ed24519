package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a single observed market price for a symbol.
type Tick struct {
	Symbol string
	Price  decimal.Decimal
	Time   time.Time
}

// PriceSource supplies current prices and historical candles for a symbol.
//
// Implementations are read-only and eventually consistent; callers bound
// lookups with the context deadline and must not assume retries succeed.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Candles(ctx context.Context, symbol string, interval Interval, count int) ([]Candle, error)
}
