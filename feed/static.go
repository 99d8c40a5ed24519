package feed

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/papertradehq/papertrade/market"
)

// Static is a fabricated price source for tests and offline runs. The price,
// candles, and failure mode are all settable.
type Static struct {
	mu      sync.Mutex
	price   decimal.Decimal
	candles []market.Candle
	err     error
}

// NewStatic returns a Static source quoting the given price.
func NewStatic(price decimal.Decimal) *Static {
	return &Static{price: price}
}

// SetPrice changes the quoted price.
func (s *Static) SetPrice(price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.price = price
}

// SetCandles sets the bars returned by Candles.
func (s *Static) SetCandles(candles []market.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candles = candles
}

// Fail makes every lookup return err until cleared with Fail(nil).
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Static) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.price, nil
}

func (s *Static) Candles(ctx context.Context, symbol string, interval market.Interval, count int) ([]market.Candle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if count > 0 && count < len(s.candles) {
		return s.candles[len(s.candles)-count:], nil
	}
	out := make([]market.Candle, len(s.candles))
	copy(out, s.candles)
	return out, nil
}
