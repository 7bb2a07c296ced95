package ta

import (
	"math"
	"testing"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEMASeriesSeedAndRecurrence(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}
	out := EMASeries(vals, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN before the window fills", i, out[i])
		}
	}
	// SMA seed over the first three values.
	if !almostEqual(out[2], 2) {
		t.Errorf("seed = %v, want 2", out[2])
	}
	// k = 2/(3+1) = 0.5, so out[3] = 4*0.5 + 2*0.5 = 3.
	if !almostEqual(out[3], 3) {
		t.Errorf("out[3] = %v, want 3", out[3])
	}
	if !almostEqual(out[4], 4) {
		t.Errorf("out[4] = %v, want 4", out[4])
	}
}

func TestEMASeriesShortInput(t *testing.T) {
	out := EMASeries([]float64{1, 2}, 5)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("out[%d] = %v, want NaN for input shorter than the window", i, v)
		}
	}
}

func TestRSISeriesExtremes(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}

	rsiUp := RSISeries(up, 14)
	if !almostEqual(rsiUp[len(rsiUp)-1], 100) {
		t.Errorf("monotonic gains: rsi = %v, want 100", rsiUp[len(rsiUp)-1])
	}

	rsiDown := RSISeries(down, 14)
	if !almostEqual(rsiDown[len(rsiDown)-1], 0) {
		t.Errorf("monotonic losses: rsi = %v, want 0", rsiDown[len(rsiDown)-1])
	}

	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsiUp[i]) {
			t.Errorf("rsi[%d] = %v, want NaN before the period fills", i, rsiUp[i])
		}
	}
}

func TestRSISeriesMidrange(t *testing.T) {
	// Alternating equal gains and losses must land at 50.
	vals := make([]float64, 30)
	for i := range vals {
		if i%2 == 0 {
			vals[i] = 100
		} else {
			vals[i] = 101
		}
	}
	rsi := RSISeries(vals, 14)
	if !almostEqual(rsi[len(rsi)-1], 50) {
		t.Errorf("rsi = %v, want 50", rsi[len(rsi)-1])
	}
}

func TestMACDSeriesFlat(t *testing.T) {
	vals := make([]float64, 60)
	for i := range vals {
		vals[i] = 500
	}
	macd, signal := MACDSeries(vals)

	if !almostEqual(macd[len(macd)-1], 0) {
		t.Errorf("flat series macd = %v, want 0", macd[len(macd)-1])
	}
	if !almostEqual(signal[len(signal)-1], 0) {
		t.Errorf("flat series signal = %v, want 0", signal[len(signal)-1])
	}
}

func TestAnnotateZeroesUndefined(t *testing.T) {
	candles := make([]types.Candle, 30)
	for i := range candles {
		price := 100 + float64(i)
		candles[i] = types.Candle{Open: price, High: price + 1, Low: price - 1, Close: price}
	}

	rows := Annotate(candles)
	if len(rows) != len(candles) {
		t.Fatalf("got %d rows, want %d", len(rows), len(candles))
	}

	first := rows[0]
	if first.EMA9 != 0 || first.RSI != 0 || first.MACD != 0 {
		t.Errorf("undefined indicators not zeroed: %+v", first)
	}
	if first.Close != 100 {
		t.Errorf("close = %v, want 100", first.Close)
	}

	last := rows[len(rows)-1]
	if last.EMA9 == 0 {
		t.Error("EMA9 should be defined at the end of a 30-candle series")
	}
	// 200-candle EMA can never fill here.
	if last.EMA200 != 0 {
		t.Errorf("EMA200 = %v, want 0 on a short series", last.EMA200)
	}
}
