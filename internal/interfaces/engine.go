package interfaces

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Engine is the order-placement core plus the scheduler-facing evaluation step.
type Engine interface {
	// HandleIntent runs the full gate -> reconcile -> size -> bracket pipeline
	// for one trade intent. Rejections and skips come back in the Outcome, not
	// as errors; the error return is for internal failures only.
	HandleIntent(ctx context.Context, intent types.TradeIntent, suppliedSecret string) (*types.Outcome, error)

	// Step evaluates one symbol: candles -> features -> oracle -> intent.
	Step(ctx context.Context, symbol string) (*types.StepResult, error)
}
