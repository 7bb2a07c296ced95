package openai

import (
	"testing"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

func TestParseRecommendationArray(t *testing.T) {
	rec, err := parseRecommendation(`[{"predicted_close": 1138.0, "confidence_score": 0.78, "decision": "Buy"}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Decision != types.SideBuy {
		t.Errorf("decision = %q, want BUY", rec.Decision)
	}
	if rec.Confidence != 0.78 {
		t.Errorf("confidence = %v, want 0.78", rec.Confidence)
	}
	if rec.PredictedClose != 1138.0 {
		t.Errorf("predicted_close = %v, want 1138", rec.PredictedClose)
	}
}

func TestParseRecommendationFencedObject(t *testing.T) {
	rec, err := parseRecommendation("```json\n{\"predicted_close\": 99.5, \"confidence_score\": 0.81, \"decision\": \"sell\"}\n```")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Decision != types.SideSell {
		t.Errorf("decision = %q, want SELL", rec.Decision)
	}
}

func TestParseRecommendationUnknownDecision(t *testing.T) {
	rec, err := parseRecommendation(`[{"predicted_close": 10, "confidence_score": 0.9, "decision": "Hold"}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Decision != types.DecisionNone {
		t.Errorf("decision = %q, want NONE", rec.Decision)
	}
}

func TestParseRecommendationOutOfRangeConfidence(t *testing.T) {
	rec, err := parseRecommendation(`{"predicted_close": 10, "confidence_score": 1.4, "decision": "BUY"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", rec.Confidence)
	}
}

func TestParseRecommendationInvalid(t *testing.T) {
	for _, in := range []string{"", "not json", "[]"} {
		if _, err := parseRecommendation(in); err == nil {
			t.Errorf("parseRecommendation(%q) succeeded, want error", in)
		}
	}
}
