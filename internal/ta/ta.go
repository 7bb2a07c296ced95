package ta

import (
	"math"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

const rsiPeriod = 14

// EMASeries returns the exponential moving average of vals with the given
// window. Entries before the window has filled are NaN.
func EMASeries(vals []float64, n int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	if n <= 0 || len(vals) < n {
		return out
	}

	// Seed with an SMA over the first window, standard EMA recurrence after.
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += vals[i]
	}
	out[n-1] = sum / float64(n)
	k := 2.0 / float64(n+1)
	for i := n; i < len(vals); i++ {
		out[i] = vals[i]*k + out[i-1]*(1-k)
	}
	return out
}

// RSISeries returns the relative strength index over a simple trailing window.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	for i := period; i < len(closes); i++ {
		gain, loss := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - closes[j-1]
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
		}
		if loss == 0 {
			out[i] = 100.0
			continue
		}
		rs := (gain / float64(period)) / (loss / float64(period))
		out[i] = 100.0 - (100.0 / (1.0 + rs))
	}
	return out
}

// MACDSeries returns the MACD line (EMA12-EMA26) and its EMA9 signal line.
func MACDSeries(closes []float64) (macd, signal []float64) {
	fast := EMASeries(closes, 12)
	slow := EMASeries(closes, 26)
	macd = make([]float64, len(closes))
	for i := range macd {
		macd[i] = fast[i] - slow[i]
	}

	// The signal EMA runs over the defined part of the MACD line only.
	signal = make([]float64, len(closes))
	for i := range signal {
		signal[i] = math.NaN()
	}
	start := 0
	for start < len(macd) && math.IsNaN(macd[start]) {
		start++
	}
	if defined := macd[start:]; len(defined) > 0 {
		sig := EMASeries(defined, 9)
		copy(signal[start:], sig)
	}
	return macd, signal
}

// Annotate converts candles into the feature rows the oracle consumes.
// NaN indicator values are zeroed so the rows marshal to plain JSON.
func Annotate(candles []types.Candle) []types.FeatureCandle {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	ema9 := EMASeries(closes, 9)
	ema21 := EMASeries(closes, 21)
	ema55 := EMASeries(closes, 55)
	ema100 := EMASeries(closes, 100)
	ema200 := EMASeries(closes, 200)
	rsi := RSISeries(closes, rsiPeriod)
	macd, signal := MACDSeries(closes)

	out := make([]types.FeatureCandle, len(candles))
	for i, c := range candles {
		out[i] = types.FeatureCandle{
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			EMA9:   zeroNaN(ema9[i]),
			EMA21:  zeroNaN(ema21[i]),
			EMA55:  zeroNaN(ema55[i]),
			EMA100: zeroNaN(ema100[i]),
			EMA200: zeroNaN(ema200[i]),
			RSI:    zeroNaN(rsi[i]),
			MACD:   zeroNaN(macd[i]),
			Signal: zeroNaN(signal[i]),
		}
	}
	return out
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
