package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputePerformance(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		acct       Account
		pos        Position
		stats      tradeStats
		price      string
		wantUPL    string
		wantTotal  string
		wantPct    string
		wantBal    string
		wantRate   string
	}{
		{
			name:      "flat_account",
			acct:      NewAccount(d("1000")),
			price:     "50",
			wantUPL:   "0",
			wantTotal: "0",
			wantPct:   "0",
			wantBal:   "1000",
			wantRate:  "0",
		},
		{
			name: "holding_with_paper_profit",
			acct: Account{
				StartingBalance: d("1000"),
				CashBalance:     d("500"),
				RealizedPL:      d("0"),
			},
			pos:       Position{QuantityHeld: d("5"), AvgBuyPrice: d("100")},
			price:     "110",
			wantUPL:   "50",
			wantTotal: "50",
			wantPct:   "5",
			wantBal:   "1050",
			wantRate:  "0",
		},
		{
			name: "realized_and_unrealized",
			acct: Account{
				StartingBalance: d("2000"),
				CashBalance:     d("1100"),
				RealizedPL:      d("100"),
			},
			pos:       Position{QuantityHeld: d("10"), AvgBuyPrice: d("100")},
			stats:     tradeStats{total: 3, sells: 2, winning: 1},
			price:     "90",
			wantUPL:   "-100",
			wantTotal: "0",
			wantPct:   "0",
			wantBal:   "2000",
			wantRate:  "50",
		},
		{
			name: "zero_starting_balance_reports_zero_percent",
			acct: Account{
				StartingBalance: d("0"),
				CashBalance:     d("100"),
				RealizedPL:      d("100"),
			},
			price:     "42",
			wantUPL:   "0",
			wantTotal: "100",
			wantPct:   "0",
			wantBal:   "100",
			wantRate:  "0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := computePerformance(tt.acct, tt.pos, tt.stats, d(tt.price), now)

			assert.True(t, d(tt.wantUPL).Equal(got.UnrealizedPL), "unrealized_pl: got %s", got.UnrealizedPL)
			assert.True(t, d(tt.wantTotal).Equal(got.TotalPL), "total_pl: got %s", got.TotalPL)
			assert.True(t, d(tt.wantPct).Equal(got.PLPercent), "pl_percent: got %s", got.PLPercent)
			assert.True(t, d(tt.wantBal).Equal(got.CurrentBalance), "current_balance: got %s", got.CurrentBalance)
			assert.True(t, d(tt.wantRate).Equal(got.WinRate), "win_rate: got %s", got.WinRate)
			assert.Equal(t, now, got.Time)
			assert.False(t, got.Stale)
		})
	}
}

func TestPercentOf(t *testing.T) {
	t.Parallel()

	got, err := percentOf(d("50"), d("1000"))
	assert.NoError(t, err)
	assert.True(t, d("5").Equal(got))

	_, err = percentOf(d("50"), decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionUndefined)
}
