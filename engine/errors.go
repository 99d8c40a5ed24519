package engine

import "errors"

var (
	// ErrInvalidTrade rejects malformed or over-sold trades. The trade is
	// not appended and no state changes.
	ErrInvalidTrade = errors.New("invalid trade")

	// ErrPriceUnavailable is returned when the price source cannot supply a
	// quote within the bounded timeout and no prior reading exists.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrDivisionUndefined marks a percentage against a zero starting
	// balance. Callers report it as 0%, never as NaN.
	ErrDivisionUndefined = errors.New("division undefined")
)
