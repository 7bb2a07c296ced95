package engine

import (
	"github.com/shopspring/decimal"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// levelCalculator derives target and stop-loss prices from an entry price.
// All arithmetic runs in decimal so tick rounding is exact; float64 crosses
// the boundary only at the edges because that is what the broker SDK speaks.
type levelCalculator struct {
	targetPct   decimal.Decimal
	stopLossPct decimal.Decimal
	tick        decimal.Decimal
}

func newLevelCalculator(targetPct, stopLossPct, tick float64) *levelCalculator {
	return &levelCalculator{
		targetPct:   decimal.NewFromFloat(targetPct),
		stopLossPct: decimal.NewFromFloat(stopLossPct),
		tick:        decimal.NewFromFloat(tick),
	}
}

var hundred = decimal.NewFromInt(100)

// TargetPrice returns entry * (1 + pct/100) rounded half-up to the tick.
func (lc *levelCalculator) TargetPrice(entry float64) (float64, error) {
	if entry <= 0 {
		return 0, types.ErrInvalidInput
	}
	e := decimal.NewFromFloat(entry)
	raw := e.Mul(decimal.NewFromInt(1).Add(lc.targetPct.Div(hundred)))
	return lc.roundToTick(raw)
}

// StopLossPrice returns entry * (1 - pct/100) rounded half-up to the tick.
func (lc *levelCalculator) StopLossPrice(entry float64) (float64, error) {
	if entry <= 0 {
		return 0, types.ErrInvalidInput
	}
	e := decimal.NewFromFloat(entry)
	raw := e.Mul(decimal.NewFromInt(1).Sub(lc.stopLossPct.Div(hundred)))
	return lc.roundToTick(raw)
}

// roundToTick snaps a price to the nearest tick multiple. decimal.Round is
// half-away-from-zero, which for positive prices is exactly round-half-up.
func (lc *levelCalculator) roundToTick(price decimal.Decimal) (float64, error) {
	if lc.tick.Sign() <= 0 {
		return 0, types.ErrInvalidInput
	}
	steps := price.Div(lc.tick).Round(0)
	return steps.Mul(lc.tick).InexactFloat64(), nil
}
