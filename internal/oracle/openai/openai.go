package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

const systemPrompt = `You are an expert stock trader who does scalping on a 15 min timeframe chart.
When given stock market data you look at the provided 15-minute candles and deeply analyze the indicators, volatility and volume
to provide informed buy or sell recommendations. Study the moving averages, RSI and MACD before giving a signal.
Refer to the below example for the data format.
[{"Open": 809.38, "High": 812.75, "Low": 806.59, "Close": 808.63, "ema_9": 795.22, "ema_21": 789.95, "ema_55": 784.64, "ema_100": 780.24, "ema_200": 773.11, "rsi": 54.2, "macd": 1.2, "macd_signal": 0.9}]
Output should be in the format of
[{"predicted_close": 1138.0, "confidence_score": 0.78, "decision": "BUY"}]
Do not send the analysis. Only the predicted result as json.`

const userPromptFmt = `Here are the 15-minute candles for the last few days of a given stock.
Please analyze the data and provide a buy or sell signal with a predicted next close.
Also provide a confidence score of your prediction. Candle data is: %s. Output should be only the values as a json array.`

// Params configures one chat-completions endpoint. Any OpenAI-compatible
// server works; BaseURL switches between the offline and online providers.
type Params struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Oracle asks a chat-completions model for a trade recommendation.
type Oracle struct {
	rc *resty.Client
	p  Params
}

var _ interfaces.Oracle = (*Oracle)(nil)

func New(p Params) *Oracle {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.openai.com/v1"
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 4096
	}
	rc := resty.New().
		SetBaseURL(p.BaseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Authorization", "Bearer "+p.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Oracle{rc: rc, p: p}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recommend sends the annotated candle series to the model and parses its
// JSON answer into a recommendation.
func (o *Oracle) Recommend(ctx context.Context, symbol string, candles []types.FeatureCandle) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "oracle.openai")
	defer span.End()

	if o.p.APIKey == "" {
		return types.Recommendation{}, fmt.Errorf("%w: api key missing", types.ErrOracle)
	}

	cb, err := json.Marshal(candles)
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("%w: marshal candles: %v", types.ErrOracle, err)
	}

	body := map[string]any{
		"model": o.p.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf(userPromptFmt, string(cb))},
		},
		"temperature": o.p.Temperature,
		"max_tokens":  o.p.MaxTokens,
	}

	var out chatResponse
	resp, err := o.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("%w: %s: %v", types.ErrOracle, symbol, err)
	}
	if resp.IsError() {
		return types.Recommendation{}, fmt.Errorf("%w: %s: http %d", types.ErrOracle, symbol, resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return types.Recommendation{}, fmt.Errorf("%w: %s: no choices", types.ErrOracle, symbol)
	}

	rec, err := parseRecommendation(out.Choices[0].Message.Content)
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("%w: %s: %v", types.ErrOracle, symbol, err)
	}
	return rec, nil
}

// parseRecommendation tolerates markdown fences and either a bare object or
// a one-element array, which is how the models actually answer.
func parseRecommendation(content string) (types.Recommendation, error) {
	s := stripFences(content)
	if s == "" {
		return types.Recommendation{}, errors.New("empty response")
	}

	var rec types.Recommendation
	if strings.HasPrefix(s, "[") {
		var arr []types.Recommendation
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return types.Recommendation{}, fmt.Errorf("invalid json: %v", err)
		}
		if len(arr) == 0 {
			return types.Recommendation{}, errors.New("empty json array")
		}
		rec = arr[0]
	} else {
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return types.Recommendation{}, fmt.Errorf("invalid json: %v", err)
		}
	}

	rec.Decision = strings.ToUpper(strings.TrimSpace(rec.Decision))
	if rec.Decision != types.SideBuy && rec.Decision != types.SideSell {
		rec.Decision = types.DecisionNone
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		rec.Confidence = 0
	}
	return rec, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
