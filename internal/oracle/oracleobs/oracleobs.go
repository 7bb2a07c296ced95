package oracleobs

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// observableOracle wraps an Oracle with observability (logging & tracing)
type observableOracle struct {
	oracle interfaces.Oracle
}

// Compile-time interface check
var _ interfaces.Oracle = (*observableOracle)(nil)

// Wrap wraps an oracle with observability middleware
func Wrap(oracle interfaces.Oracle) interfaces.Oracle {
	return &observableOracle{
		oracle: oracle,
	}
}

// Recommend requests a recommendation with observability
func (oo *observableOracle) Recommend(ctx context.Context, symbol string, candles []types.FeatureCandle) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "oracle.Recommend")
	defer span.End()

	logger.Debug(ctx, "Requesting recommendation", "symbol", symbol, "candles", len(candles))

	rec, err := oo.oracle.Recommend(ctx, symbol, candles)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to get recommendation", err, "symbol", symbol)
		return types.Recommendation{}, err
	}

	logger.Info(ctx, "Recommendation received",
		"symbol", symbol,
		"decision", rec.Decision,
		"confidence", rec.Confidence,
		"predicted_close", rec.PredictedClose,
	)
	return rec, nil
}
