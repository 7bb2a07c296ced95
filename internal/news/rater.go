package news

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

const ratingSystemPrompt = `You are an expert stock trader and news analyst who reads the latest news about a provided stock and rates it from 0-5.
Where 1 represents very bad news and 5 represents very good news. Output should strictly be in json format like {"rating": 4}.
Only consider news from the last 2 days. Ignore news about a subsidiary or parent company; only the asked company matters.
If you are not sure about the news or cannot find anything recent, give a rating of 0.`

var ratingPattern = regexp.MustCompile(`"rating"\s*:\s*(\d+)`)

// RaterParams configures the chat-completions endpoint used for rating.
// An online-search capable model works best here.
type RaterParams struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// Rater asks a model to grade scraped headlines for a symbol.
type Rater struct {
	rc *resty.Client
	p  RaterParams
}

func NewRater(p RaterParams) *Rater {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.openai.com/v1"
	}
	rc := resty.New().
		SetBaseURL(p.BaseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Authorization", "Bearer "+p.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Rater{rc: rc, p: p}
}

// Rate grades the supplied articles on the 0-5 scale.
func (r *Rater) Rate(ctx context.Context, symbol string, articles []Article) (int, error) {
	ctx, span := trace.StartSpan(ctx, "news.rate")
	defer span.End()

	if r.p.APIKey == "" {
		return 0, fmt.Errorf("%w: news rater api key missing", types.ErrOracle)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here is the ticker symbol: %s.\nRecent headlines:\n", symbol)
	for _, a := range articles {
		fmt.Fprintf(&sb, "- [%s] %s", a.Source, a.Title)
		if a.PublishedAt != "" {
			fmt.Fprintf(&sb, " (%s)", a.PublishedAt)
		}
		sb.WriteString("\n")
		if a.Summary != "" {
			fmt.Fprintf(&sb, "  %s\n", a.Summary)
		}
	}

	body := map[string]any{
		"model": r.p.Model,
		"messages": []map[string]string{
			{"role": "system", "content": ratingSystemPrompt},
			{"role": "user", "content": sb.String()},
		},
		"temperature": r.p.Temperature,
		"max_tokens":  256,
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	resp, err := r.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return 0, fmt.Errorf("%w: news rating %s: %v", types.ErrOracle, symbol, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("%w: news rating %s: http %d", types.ErrOracle, symbol, resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return 0, fmt.Errorf("%w: news rating %s: no choices", types.ErrOracle, symbol)
	}

	return parseRating(out.Choices[0].Message.Content)
}

// parseRating pulls the rating out of the model's answer without insisting
// on clean JSON; models wrap it in prose and fences often enough.
func parseRating(content string) (int, error) {
	m := ratingPattern.FindStringSubmatch(content)
	if m == nil {
		return 0, fmt.Errorf("no rating found in response")
	}
	rating, err := strconv.Atoi(m[1])
	if err != nil || rating < 0 || rating > 5 {
		return 0, fmt.Errorf("rating out of range: %s", m[1])
	}
	return rating, nil
}
