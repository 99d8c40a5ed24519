package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPosition_ApplyBuy_WeightedAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buys    [][2]string // quantity, price
		wantQty string
		wantAvg string
	}{
		{
			name:    "single_buy",
			buys:    [][2]string{{"1", "100"}},
			wantQty: "1",
			wantAvg: "100",
		},
		{
			name:    "equal_quantities",
			buys:    [][2]string{{"1", "100"}, {"1", "120"}},
			wantQty: "2",
			wantAvg: "110",
		},
		{
			name:    "weighted_by_quantity",
			buys:    [][2]string{{"3", "100"}, {"1", "120"}},
			wantQty: "4",
			wantAvg: "105",
		},
		{
			name:    "fractional_quantities",
			buys:    [][2]string{{"0.5", "40000"}, {"0.25", "44000"}},
			wantQty: "0.75",
			wantAvg: "41333.3333333333333333",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p Position
			for _, b := range tt.buys {
				p.applyBuy(d(b[0]), d(b[1]))
			}

			assert.True(t, d(tt.wantQty).Equal(p.QuantityHeld),
				"quantity held: want %s, got %s", tt.wantQty, p.QuantityHeld)
			assert.True(t, d(tt.wantAvg).Equal(p.AvgBuyPrice),
				"avg buy price: want %s, got %s", tt.wantAvg, p.AvgBuyPrice)
		})
	}
}

func TestPosition_ApplySell_BasisUnchanged(t *testing.T) {
	t.Parallel()

	var p Position
	p.applyBuy(d("1"), d("100"))
	p.applyBuy(d("1"), d("120"))

	p.applySell(d("1"))

	assert.True(t, d("1").Equal(p.QuantityHeld))
	assert.True(t, d("110").Equal(p.AvgBuyPrice), "sell must not move the basis, got %s", p.AvgBuyPrice)
}

func TestPosition_FullClose_ResetsBasis(t *testing.T) {
	t.Parallel()

	var p Position
	p.applyBuy(d("2"), d("100"))
	p.applySell(d("2"))

	assert.True(t, p.QuantityHeld.IsZero())
	assert.True(t, p.AvgBuyPrice.IsZero(), "closed position keeps no basis")

	// A new buy starts a fresh basis with no carryover.
	p.applyBuy(d("1"), d("500"))
	assert.True(t, d("500").Equal(p.AvgBuyPrice))
}
