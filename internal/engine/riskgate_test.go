package engine

import (
	"context"
	"testing"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

func mustGate(t *testing.T, start, end string, maxLoss float64, passphrase string) *riskGate {
	t.Helper()
	g, err := newRiskGate(start, end, maxLoss, passphrase)
	if err != nil {
		t.Fatalf("newRiskGate: %v", err)
	}
	return g
}

func istTime(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, ist)
}

func TestWithinWindowInclusive(t *testing.T) {
	g := mustGate(t, "09:20", "15:00", 0, "x")

	cases := []struct {
		hour, min int
		want      bool
	}{
		{9, 19, false},
		{9, 20, true}, // inclusive start
		{12, 0, true},
		{15, 0, true}, // inclusive end
		{15, 1, false},
		{8, 0, false},
		{16, 30, false},
	}
	for _, tc := range cases {
		if got := g.WithinWindow(istTime(tc.hour, tc.min)); got != tc.want {
			t.Errorf("WithinWindow(%02d:%02d) = %v, want %v", tc.hour, tc.min, got, tc.want)
		}
	}
}

func TestWithinWindowConvertsToIST(t *testing.T) {
	g := mustGate(t, "09:20", "15:00", 0, "x")

	// 05:00 UTC is 10:30 IST, inside the window.
	utc := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	if !g.WithinWindow(utc) {
		t.Error("expected 05:00 UTC (10:30 IST) to be inside the window")
	}

	// 12:00 UTC is 17:30 IST, outside.
	utc = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	if g.WithinWindow(utc) {
		t.Error("expected 12:00 UTC (17:30 IST) to be outside the window")
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, s := range []string{"25:00", "09:61", "abc"} {
		if _, err := newRiskGate(s, "15:00", 0, "x"); err == nil {
			t.Errorf("newRiskGate(start=%q) succeeded, want error", s)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	g := mustGate(t, "09:20", "15:00", 0, "hunter2")

	if !g.Authenticate("hunter2") {
		t.Error("correct passphrase rejected")
	}
	if g.Authenticate("hunter3") || g.Authenticate("") {
		t.Error("wrong passphrase accepted")
	}
}

func TestTotalPNL(t *testing.T) {
	positions := []types.Position{
		// closed round trip: bought at 100, sold at 102, qty 10
		{Symbol: "SBIN", NetQuantity: 0, BuyValue: 1000, SellValue: 1020, LastPrice: 101, Multiplier: 1},
		// open long: 5 @ 200, marked at 195
		{Symbol: "INFY", NetQuantity: 5, BuyValue: 1000, SellValue: 0, LastPrice: 195, Multiplier: 1},
	}

	got := TotalPNL(positions)
	want := 20.0 + (-1000.0 + 5*195.0)
	if got != want {
		t.Errorf("TotalPNL = %v, want %v", got, want)
	}
}

func TestUnderLossLimit(t *testing.T) {
	ctx := context.Background()
	g := mustGate(t, "09:20", "15:00", 1000, "x")

	losing := []types.Position{
		{Symbol: "SBIN", NetQuantity: 0, BuyValue: 5000, SellValue: 3500, Multiplier: 1},
	}
	if g.UnderLossLimit(ctx, losing) {
		t.Error("expected -1500 PNL to breach a 1000 loss limit")
	}

	atLimit := []types.Position{
		{Symbol: "SBIN", NetQuantity: 0, BuyValue: 5000, SellValue: 4000, Multiplier: 1},
	}
	if g.UnderLossLimit(ctx, atLimit) {
		t.Error("expected PNL exactly at -MaxLoss to be rejected")
	}

	winning := []types.Position{
		{Symbol: "SBIN", NetQuantity: 0, BuyValue: 5000, SellValue: 5400, Multiplier: 1},
	}
	if !g.UnderLossLimit(ctx, winning) {
		t.Error("expected positive PNL to pass")
	}
}

func TestUnderLossLimitDisabled(t *testing.T) {
	g := mustGate(t, "09:20", "15:00", 0, "x")

	deepLoss := []types.Position{
		{Symbol: "SBIN", NetQuantity: 0, BuyValue: 100000, SellValue: 0, Multiplier: 1},
	}
	if !g.UnderLossLimit(context.Background(), deepLoss) {
		t.Error("expected zero MaxLoss to disable the check")
	}
}
