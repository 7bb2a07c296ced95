package consensus

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Oracle demands agreement between two independent models before acting.
// Either model hesitating, or the two disagreeing, downgrades the answer
// to NONE. The predicted close is the more conservative of the two.
type Oracle struct {
	primary       interfaces.Oracle
	online        interfaces.Oracle
	minConfidence float64
}

var _ interfaces.Oracle = (*Oracle)(nil)

func New(primary, online interfaces.Oracle, minConfidence float64) *Oracle {
	if minConfidence <= 0 {
		minConfidence = 0.75
	}
	return &Oracle{primary: primary, online: online, minConfidence: minConfidence}
}

func (o *Oracle) Recommend(ctx context.Context, symbol string, candles []types.FeatureCandle) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "oracle.consensus")
	defer span.End()

	first, err := o.primary.Recommend(ctx, symbol, candles)
	if err != nil {
		return types.Recommendation{}, err
	}
	second, err := o.online.Recommend(ctx, symbol, candles)
	if err != nil {
		return types.Recommendation{}, err
	}

	if first.Confidence < o.minConfidence || second.Confidence < o.minConfidence {
		logger.Debug(ctx, "Consensus rejected: confidence below threshold",
			"symbol", symbol,
			"primary", first.Confidence,
			"online", second.Confidence,
			"min", o.minConfidence,
		)
		return none(first, second), nil
	}
	if first.Decision != second.Decision {
		logger.Debug(ctx, "Consensus rejected: models disagree",
			"symbol", symbol,
			"primary", first.Decision,
			"online", second.Decision,
		)
		return none(first, second), nil
	}

	rec := types.Recommendation{
		Decision:       first.Decision,
		Confidence:     min(first.Confidence, second.Confidence),
		PredictedClose: min(first.PredictedClose, second.PredictedClose),
	}
	return rec, nil
}

func none(a, b types.Recommendation) types.Recommendation {
	return types.Recommendation{
		Decision:       types.DecisionNone,
		Confidence:     min(a.Confidence, b.Confidence),
		PredictedClose: min(a.PredictedClose, b.PredictedClose),
	}
}
