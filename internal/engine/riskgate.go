package engine

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// ist is the exchange timezone; NSE trades in UTC+5:30.
var ist = time.FixedZone("IST", 19800)

// riskGate runs the three pre-trade checks. It holds no state between calls;
// positions are handed in fresh each invocation.
type riskGate struct {
	startHour, startMin int
	endHour, endMin     int
	maxLoss             float64
	passphrase          string
}

func newRiskGate(windowStart, windowEnd string, maxLoss float64, passphrase string) (*riskGate, error) {
	g := &riskGate{maxLoss: maxLoss, passphrase: passphrase}
	var err error
	if g.startHour, g.startMin, err = parseClock(windowStart); err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	if g.endHour, g.endMin, err = parseClock(windowEnd); err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}
	return g, nil
}

func parseClock(s string) (hour, min int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &min); err != nil {
		return 0, 0, fmt.Errorf("%w: bad clock value %q", types.ErrInvalidInput, s)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("%w: bad clock value %q", types.ErrInvalidInput, s)
	}
	return hour, min, nil
}

// Authenticate compares the supplied passphrase in constant time.
func (g *riskGate) Authenticate(supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(g.passphrase)) == 1
}

// WithinWindow reports whether now falls inside the configured trading window.
// Comparison is inclusive at both ends and done in IST wall-clock minutes.
func (g *riskGate) WithinWindow(now time.Time) bool {
	t := now.In(ist)
	mins := t.Hour()*60 + t.Minute()
	return mins >= g.startHour*60+g.startMin && mins <= g.endHour*60+g.endMin
}

// TotalPNL aggregates open-position PNL:
// sum of (sell_value - buy_value) + net_qty * last_price * multiplier.
func TotalPNL(positions []types.Position) float64 {
	total := 0.0
	for _, p := range positions {
		total += (p.SellValue - p.BuyValue) + float64(p.NetQuantity)*p.LastPrice*p.Multiplier
	}
	return total
}

// UnderLossLimit reports whether aggregate PNL is still above -MaxLoss.
// MaxLoss is configured as a positive currency amount; zero disables the check.
func (g *riskGate) UnderLossLimit(ctx context.Context, positions []types.Position) bool {
	if g.maxLoss <= 0 {
		return true
	}
	total := TotalPNL(positions)
	if total <= -g.maxLoss {
		logger.Risk(ctx, "", "LOSS_LIMIT_BREACHED", "total_pnl", total, "max_loss", g.maxLoss)
		return false
	}
	return true
}
