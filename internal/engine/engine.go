package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/store"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Engine wires the pre-trade gate, the sizing/level math and the order
// orchestration together. It keeps no position cache: broker snapshots are
// the only truth, re-fetched on every call.
type Engine struct {
	cfg    *store.Config
	brk    interfaces.Broker
	ledger interfaces.Ledger
	oracle interfaces.Oracle
	news   interfaces.NewsRater // optional, nil disables the news check

	gate   *riskGate
	sizer  *positionSizer
	levels *levelCalculator

	passphrase string
	now        func() time.Time
}

var _ interfaces.Engine = (*Engine)(nil)

func New(cfg *store.Config, brk interfaces.Broker, ledger interfaces.Ledger, oracle interfaces.Oracle, news interfaces.NewsRater, passphrase string) (*Engine, error) {
	gate, err := newRiskGate(cfg.Window.Start, cfg.Window.End, cfg.Risk.MaxLoss, passphrase)
	if err != nil {
		return nil, fmt.Errorf("risk gate: %w", err)
	}
	if cfg.Candles.Series < 1 {
		return nil, fmt.Errorf("%w: candle series length %d", types.ErrInvalidInput, cfg.Candles.Series)
	}
	return &Engine{
		cfg:        cfg,
		brk:        brk,
		ledger:     ledger,
		oracle:     oracle,
		news:       news,
		gate:       gate,
		sizer:      newPositionSizer(cfg.Risk.MaxQuantity),
		levels:     newLevelCalculator(cfg.Levels.TargetPct, cfg.Levels.StopLossPct, cfg.Levels.Tick),
		passphrase: passphrase,
		now:        time.Now,
	}, nil
}

func normalizeSide(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case types.SideBuy, "B":
		return types.SideBuy, nil
	case types.SideSell, "S":
		return types.SideSell, nil
	default:
		return "", fmt.Errorf("%w: transaction type %q", types.ErrInvalidInput, s)
	}
}
