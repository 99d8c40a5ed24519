package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data.
type Candle struct {
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Time   time.Time       `json:"time"`
	Volume decimal.Decimal `json:"volume"`
}

// Interval represents the time frame for candles.
type Interval string

const (
	M1  Interval = "1m"
	M5  Interval = "5m"
	M15 Interval = "15m"
	H1  Interval = "1h"
	H4  Interval = "4h"
	D1  Interval = "1d"
)

// Intervals maps every supported candle interval to its duration.
var Intervals = map[Interval]time.Duration{
	M1:  time.Minute,
	M5:  5 * time.Minute,
	M15: 15 * time.Minute,
	H1:  time.Hour,
	H4:  4 * time.Hour,
	D1:  24 * time.Hour,
}

// ValidInterval reports whether s names a supported candle interval.
func ValidInterval(s string) bool {
	_, ok := Intervals[Interval(s)]
	return ok
}
