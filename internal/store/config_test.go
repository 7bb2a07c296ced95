package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
universe: [SBIN, RELIANCE]
levels:
  target_pct: 0.2
  stoploss_pct: 1.0
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Exchange != "NSE" {
		t.Errorf("expected default exchange NSE, got %s", cfg.Exchange)
	}
	if cfg.Levels.Tick != 0.05 {
		t.Errorf("expected default tick 0.05, got %v", cfg.Levels.Tick)
	}
	if cfg.Window.Start != "09:20" || cfg.Window.End != "15:00" {
		t.Errorf("expected default window 09:20-15:00, got %s-%s", cfg.Window.Start, cfg.Window.End)
	}
	if cfg.Risk.MaxQuantity != 1000 {
		t.Errorf("expected default quantity cap 1000, got %d", cfg.Risk.MaxQuantity)
	}
	if cfg.Order.Kind != "LIMIT" {
		t.Errorf("expected default order kind LIMIT, got %s", cfg.Order.Kind)
	}
	if cfg.Oracle.MinConfidence != 0.75 {
		t.Errorf("expected default min confidence 0.75, got %v", cfg.Oracle.MinConfidence)
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	p := writeConfig(t, `
mode: PAPER
universe: [SBIN]
levels:
  target_pct: 0.2
  stoploss_pct: 1.0
`)
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestLoadConfigRejectsEmptyUniverse(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
universe: []
levels:
  target_pct: 0.2
  stoploss_pct: 1.0
`)
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for empty universe")
	}
}

func TestLoadConfigRejectsNegativeCandleSeries(t *testing.T) {
	p := writeConfig(t, `
mode: DRY_RUN
universe: [SBIN]
candles:
  series: -5
levels:
  target_pct: 0.2
  stoploss_pct: 1.0
`)
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for negative candle series length")
	}
}

func TestLoadConfigRejectsBadOrderKind(t *testing.T) {
	p := writeConfig(t, `
mode: LIVE
universe: [SBIN]
order:
  kind: STOP
levels:
  target_pct: 0.2
  stoploss_pct: 1.0
`)
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected error for invalid order kind")
	}
}
