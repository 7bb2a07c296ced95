package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/ta"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Warmup candles fetched beyond the series the oracle sees, so the slowest
// EMA (200) has settled before the first emitted row.
const featureWarmup = 200

// Step evaluates one symbol on the polling cadence: fetch candles, annotate
// features, ask the oracle, and hand any actionable recommendation to
// HandleIntent as a fresh trade intent.
func (e *Engine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	candles, err := e.brk.RecentCandles(ctx, symbol, e.cfg.Candles.Series+featureWarmup)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candles", err, "symbol", symbol)
		return nil, fmt.Errorf("%w: candles for %s: %v", types.ErrBroker, symbol, err)
	}
	if len(candles) < e.cfg.Candles.Series {
		return nil, fmt.Errorf("not enough candles for %s: got %d, need %d", symbol, len(candles), e.cfg.Candles.Series)
	}

	series := ta.Annotate(candles)
	if len(series) > e.cfg.Candles.Series {
		series = series[len(series)-e.cfg.Candles.Series:]
	}
	latest := candles[len(candles)-1]

	rec, err := e.oracle.Recommend(ctx, symbol, series)
	if err != nil {
		logger.ErrorWithErr(ctx, "Oracle call failed", err, "symbol", symbol)
		return nil, fmt.Errorf("%w: %v", types.ErrOracle, err)
	}

	result := &types.StepResult{
		Symbol:         symbol,
		Recommendation: &rec,
		Price:          latest.Close,
		Time:           latest.Ts,
	}

	decision := strings.ToUpper(rec.Decision)
	if decision != types.SideBuy && decision != types.SideSell {
		logger.Debug(ctx, "No actionable recommendation", "symbol", symbol, "decision", rec.Decision)
		return result, nil
	}
	if rec.Confidence < e.cfg.Oracle.MinConfidence {
		logger.Debug(ctx, "Recommendation below confidence threshold",
			"symbol", symbol, "confidence", rec.Confidence, "min", e.cfg.Oracle.MinConfidence)
		return result, nil
	}
	logger.Info(ctx, "Oracle recommendation",
		"symbol", symbol,
		"decision", decision,
		"confidence", rec.Confidence,
		"predicted_close", rec.PredictedClose,
	)

	if e.news != nil {
		rating, err := e.news.Rating(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "News rating unavailable", "symbol", symbol, "error", err.Error())
		} else if rating == 1 {
			// 1 is the "very bad news" bucket; 0 means nothing found.
			logger.Info(ctx, "Skipping on negative news", "symbol", symbol, "rating", rating)
			result.Outcome = &types.Outcome{Status: types.StatusSkipped, Reason: "negative news"}
			return result, nil
		}
	}

	outcome, err := e.HandleIntent(ctx, types.TradeIntent{Symbol: symbol, Side: decision}, e.passphrase)
	if err != nil {
		return nil, err
	}
	result.Outcome = outcome
	return result, nil
}
