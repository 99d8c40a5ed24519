package engine

import "github.com/shopspring/decimal"

// Position is the single running holding derived from the ledger. It is
// never edited directly; only buy/sell application mutates it.
type Position struct {
	QuantityHeld decimal.Decimal
	AvgBuyPrice  decimal.Decimal
}

// applyBuy folds a buy into the weighted-average cost basis.
func (p *Position) applyBuy(quantity, price decimal.Decimal) {
	newQty := p.QuantityHeld.Add(quantity)
	held := p.AvgBuyPrice.Mul(p.QuantityHeld)
	bought := price.Mul(quantity)
	p.AvgBuyPrice = held.Add(bought).Div(newQty)
	p.QuantityHeld = newQty
}

// applySell reduces the holding. The cost basis is unaffected by sells; once
// the position is fully closed it resets to zero so a later buy starts a
// fresh basis with no carryover.
func (p *Position) applySell(quantity decimal.Decimal) {
	p.QuantityHeld = p.QuantityHeld.Sub(quantity)
	if p.QuantityHeld.IsZero() {
		p.AvgBuyPrice = decimal.Zero
	}
}
