package engine

import "github.com/shopspring/decimal"

// Account is the root aggregate: the configured starting balance, the cash
// remaining after buys and sell proceeds, and cumulative realized P/L.
type Account struct {
	StartingBalance decimal.Decimal
	CashBalance     decimal.Decimal
	RealizedPL      decimal.Decimal
}

// NewAccount initializes an account with all cash and no realized P/L.
func NewAccount(startingBalance decimal.Decimal) Account {
	return Account{
		StartingBalance: startingBalance,
		CashBalance:     startingBalance,
		RealizedPL:      decimal.Zero,
	}
}
