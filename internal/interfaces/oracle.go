package interfaces

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Oracle is the external recommendation service, treated as a black box.
type Oracle interface {
	Recommend(ctx context.Context, symbol string, series []types.FeatureCandle) (types.Recommendation, error)
}
