package engine

import "github.com/priyankkodesianetspi/algo-bot/internal/types"

// positionSizer converts available cash into an order quantity.
type positionSizer struct {
	maxQuantity int
}

// newPositionSizer caps every sized order at maxQuantity. A non-positive cap
// disables the clamp; config defaulting supplies 1000 so that only happens
// when an engine is constructed by hand.
func newPositionSizer(maxQuantity int) *positionSizer {
	return &positionSizer{maxQuantity: maxQuantity}
}

// Quantity returns floor(cash/price)-1, clamped to [0, maxQuantity]. The one
// unit held back absorbs price slippage between sizing and submission. A zero
// result means "skip the trade" and is not an error; cash below one unit's
// price also yields zero.
func (ps *positionSizer) Quantity(availableCash, unitPrice float64) (int, error) {
	if unitPrice <= 0 {
		return 0, types.ErrInvalidInput
	}
	if availableCash < unitPrice {
		return 0, nil
	}
	qty := int(availableCash/unitPrice) - 1
	if qty < 0 {
		qty = 0
	}
	if ps.maxQuantity > 0 && qty > ps.maxQuantity {
		qty = ps.maxQuantity
	}
	return qty, nil
}
