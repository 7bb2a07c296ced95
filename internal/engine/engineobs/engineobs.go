package engineobs

import (
	"context"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engineobs.Step")
	defer span.End()

	start := time.Now()

	logger.Info(ctx, "Starting trading cycle",
		"symbol", symbol,
	)

	result, err := oe.engine.Step(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Trading cycle failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	fields := []any{
		"symbol", symbol,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if result.Recommendation != nil {
		fields = append(fields,
			"decision", result.Recommendation.Decision,
			"confidence", result.Recommendation.Confidence,
		)
	}
	if result.Outcome != nil {
		fields = append(fields,
			"status", result.Outcome.Status,
			"reason", result.Outcome.Reason,
		)
	}
	logger.Info(ctx, "Trading cycle completed", fields...)

	return result, nil
}

func (oe *observableEngine) HandleIntent(ctx context.Context, intent types.TradeIntent, suppliedSecret string) (*types.Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "engineobs.HandleIntent")
	defer span.End()

	start := time.Now()

	outcome, err := oe.engine.HandleIntent(ctx, intent, suppliedSecret)
	if err != nil {
		logger.ErrorWithErr(ctx, "Intent handling failed", err,
			"symbol", intent.Symbol,
			"side", intent.Side,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info(ctx, "Intent handled",
		"symbol", intent.Symbol,
		"side", intent.Side,
		"status", outcome.Status,
		"reason", outcome.Reason,
		"group_id", outcome.GroupID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return outcome, nil
}
