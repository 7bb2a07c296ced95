package noop

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Oracle is the fallback used when no model provider is configured.
type Oracle struct{}

// New returns an oracle that never recommends a trade.
func New() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Recommend(ctx context.Context, symbol string, candles []types.FeatureCandle) (types.Recommendation, error) {
	logger.Debug(ctx, "Noop oracle called - always returns NONE", "symbol", symbol)
	return types.Recommendation{
		Decision:   types.DecisionNone,
		Confidence: 0,
	}, nil
}
