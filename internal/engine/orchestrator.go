package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// HandleIntent converts one trade intent into at most one coordinated set of
// broker orders. Every broker call is attempted exactly once; there are no
// retries and no rollback of a live entry leg.
func (e *Engine) HandleIntent(ctx context.Context, intent types.TradeIntent, suppliedSecret string) (*types.Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "engine.HandleIntent")
	defer span.End()

	if intent.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol not provided", types.ErrInvalidInput)
	}
	side, err := normalizeSide(intent.Side)
	if err != nil {
		return nil, err
	}
	intent.Side = side

	// Pre-trade gate: all three checks run before any order attempt.
	if !e.gate.Authenticate(suppliedSecret) {
		logger.Warn(ctx, "Intent rejected", "symbol", intent.Symbol, "reason", "invalid passphrase")
		return &types.Outcome{Status: types.StatusRejected, Reason: types.ErrUnauthorized.Error()}, nil
	}
	if !e.gate.WithinWindow(e.now()) {
		logger.Warn(ctx, "Intent rejected", "symbol", intent.Symbol, "reason", "outside trading window")
		return &types.Outcome{Status: types.StatusRejected, Reason: types.ErrWindowClosed.Error()}, nil
	}

	positions, err := e.brk.Positions(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch positions", err, "symbol", intent.Symbol)
		return &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("positions: %v", err)}, nil
	}
	if !e.gate.UnderLossLimit(ctx, positions) {
		return &types.Outcome{Status: types.StatusRejected, Reason: types.ErrRiskLimitExceeded.Error()}, nil
	}

	// Reconcile against the existing exposure for this symbol.
	if existing := findPosition(positions, intent.Symbol); existing != nil {
		sameDirection := (existing.NetQuantity > 0 && intent.Side == types.SideBuy) ||
			(existing.NetQuantity < 0 && intent.Side == types.SideSell)
		if sameDirection {
			logger.Info(ctx, "Open position in same direction, skipping",
				"symbol", intent.Symbol, "side", intent.Side, "net_qty", existing.NetQuantity)
			return &types.Outcome{Status: types.StatusSkipped, Reason: "open position in same direction"}, nil
		}
		return e.closePosition(ctx, intent, existing)
	}

	return e.openBracket(ctx, intent)
}

func findPosition(positions []types.Position, symbol string) *types.Position {
	for i := range positions {
		if positions[i].Symbol == symbol && positions[i].NetQuantity != 0 {
			return &positions[i]
		}
	}
	return nil
}

// closePosition squares off an opposite-direction position with a single
// market order. No target or stop-loss legs are added for a closing trade.
func (e *Engine) closePosition(ctx context.Context, intent types.TradeIntent, pos *types.Position) (*types.Outcome, error) {
	qty := pos.NetQuantity
	if qty < 0 {
		qty = -qty
	}

	// Levels are computed up front so a failed close still leaves a complete
	// missed-trade record behind.
	price, targetPrice, stopLossPrice, outcome := e.resolveLevels(ctx, intent)
	if outcome != nil {
		return outcome, nil
	}

	leg := types.OrderLeg{
		Role:      types.RoleEntry,
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		Quantity:  qty,
		OrderKind: types.OrderKindMarket,
	}
	orderID, err := e.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		Quantity:  qty,
		OrderKind: types.OrderKindMarket,
		Tag:       "CLOSE",
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place closing order", err, "symbol", intent.Symbol, "qty", qty)
		if lerr := e.ledger.AppendMissedTrade(intent, price, targetPrice, stopLossPrice); lerr != nil {
			logger.ErrorWithErr(ctx, "Failed to record missed trade", lerr, "symbol", intent.Symbol)
		}
		return &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("closing order: %v", err)}, nil
	}
	leg.BrokerOrderID = orderID
	leg.Status = e.confirmStatus(ctx, orderID)

	logger.Trade(ctx, intent.Symbol, intent.Side, qty, price, orderID, "tag", "CLOSE")
	if err := e.ledger.AppendOrderGroup(orderID, []types.OrderLeg{leg}); err != nil {
		logger.ErrorWithErr(ctx, "Failed to append closing order to ledger", err, "order_id", orderID)
	}

	return &types.Outcome{
		Status:  types.StatusSubmitted,
		Reason:  "closed opposite position",
		GroupID: orderID,
		LegIDs:  []string{orderID},
	}, nil
}

// openBracket sizes a fresh position and submits entry, target and stop-loss
// legs in that strict order.
func (e *Engine) openBracket(ctx context.Context, intent types.TradeIntent) (*types.Outcome, error) {
	price, targetPrice, stopLossPrice, outcome := e.resolveLevels(ctx, intent)
	if outcome != nil {
		return outcome, nil
	}

	qty, outcome := e.resolveQuantity(ctx, intent, price)
	if outcome != nil {
		return outcome, nil
	}

	logger.Info(ctx, "Placing bracket order",
		"symbol", intent.Symbol,
		"side", intent.Side,
		"qty", qty,
		"price", price,
		"target", targetPrice,
		"stoploss", stopLossPrice,
	)

	entry := types.OrderLeg{
		Role:      types.RoleEntry,
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		Quantity:  qty,
		OrderKind: e.cfg.Order.Kind,
	}
	entryReq := types.OrderReq{
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		Quantity:  qty,
		OrderKind: e.cfg.Order.Kind,
		Tag:       "ENTRY",
	}
	if e.cfg.Order.Kind == types.OrderKindLimit {
		entry.Price = price
		entryReq.Price = price
	}

	entryID, err := e.brk.PlaceOrder(ctx, entryReq)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place entry order", err, "symbol", intent.Symbol, "qty", qty)
		if lerr := e.ledger.AppendMissedTrade(intent, price, targetPrice, stopLossPrice); lerr != nil {
			logger.ErrorWithErr(ctx, "Failed to record missed trade", lerr, "symbol", intent.Symbol)
		}
		return &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("entry order: %v", err)}, nil
	}
	entry.BrokerOrderID = entryID
	logger.Trade(ctx, intent.Symbol, intent.Side, qty, price, entryID, "tag", "ENTRY")

	opposite := types.OppositeSide(intent.Side)
	legs := []types.OrderLeg{entry}
	var failed []string

	target := types.OrderLeg{
		Role:      types.RoleTarget,
		Symbol:    intent.Symbol,
		Side:      opposite,
		Quantity:  qty,
		OrderKind: types.OrderKindLimit,
		Price:     targetPrice,
	}
	if targetID, err := e.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol:    intent.Symbol,
		Side:      opposite,
		Quantity:  qty,
		OrderKind: types.OrderKindLimit,
		Price:     targetPrice,
		Tag:       "TARGET",
	}); err != nil {
		logger.Risk(ctx, intent.Symbol, "BRACKET_PARTIAL", "leg", "target", "error", err.Error(), "entry_order_id", entryID)
		failed = append(failed, "target")
	} else {
		target.BrokerOrderID = targetID
		legs = append(legs, target)
		logger.Trade(ctx, intent.Symbol, opposite, qty, targetPrice, targetID, "tag", "TARGET")
	}

	stopLoss := types.OrderLeg{
		Role:         types.RoleStopLoss,
		Symbol:       intent.Symbol,
		Side:         opposite,
		Quantity:     qty,
		OrderKind:    types.OrderKindSLM,
		TriggerPrice: stopLossPrice,
	}
	if slID, err := e.brk.PlaceOrder(ctx, types.OrderReq{
		Symbol:       intent.Symbol,
		Side:         opposite,
		Quantity:     qty,
		OrderKind:    types.OrderKindSLM,
		TriggerPrice: stopLossPrice,
		Tag:          "SL",
	}); err != nil {
		logger.Risk(ctx, intent.Symbol, "BRACKET_PARTIAL", "leg", "stoploss", "error", err.Error(), "entry_order_id", entryID)
		failed = append(failed, "stoploss")
	} else {
		stopLoss.BrokerOrderID = slID
		legs = append(legs, stopLoss)
		logger.Trade(ctx, intent.Symbol, opposite, qty, stopLossPrice, slID, "tag", "SL")
	}

	legIDs := make([]string, 0, len(legs))
	for i := range legs {
		legs[i].Status = e.confirmStatus(ctx, legs[i].BrokerOrderID)
		legIDs = append(legIDs, legs[i].BrokerOrderID)
	}

	if err := e.ledger.AppendOrderGroup(entryID, legs); err != nil {
		logger.ErrorWithErr(ctx, "Failed to append order group to ledger", err, "group_id", entryID)
	}

	out := &types.Outcome{Status: types.StatusSubmitted, GroupID: entryID, LegIDs: legIDs}
	if len(failed) > 0 {
		out.Reason = "partial bracket, failed legs: " + strings.Join(failed, ",")
	}
	return out, nil
}

// resolveLevels determines the entry price (override or LTP) and derives the
// target and stop-loss prices. A non-nil outcome short-circuits the caller.
func (e *Engine) resolveLevels(ctx context.Context, intent types.TradeIntent) (price, targetPrice, stopLossPrice float64, outcome *types.Outcome) {
	if intent.Price != nil && *intent.Price > 0 {
		price = *intent.Price
	} else {
		ltp, err := e.brk.LTP(ctx, intent.Symbol)
		if err != nil {
			if errors.Is(err, types.ErrUnknownSymbol) {
				logger.Warn(ctx, "Intent rejected", "symbol", intent.Symbol, "reason", "unknown symbol")
				return 0, 0, 0, &types.Outcome{Status: types.StatusRejected, Reason: types.ErrUnknownSymbol.Error()}
			}
			logger.ErrorWithErr(ctx, "Failed to fetch LTP", err, "symbol", intent.Symbol)
			return 0, 0, 0, &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("quote: %v", err)}
		}
		price = ltp
	}

	var err error
	if targetPrice, err = e.levels.TargetPrice(price); err != nil {
		return 0, 0, 0, &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("target price: %v", err)}
	}
	if stopLossPrice, err = e.levels.StopLossPrice(price); err != nil {
		return 0, 0, 0, &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("stop-loss price: %v", err)}
	}
	return price, targetPrice, stopLossPrice, nil
}

func (e *Engine) resolveQuantity(ctx context.Context, intent types.TradeIntent, price float64) (int, *types.Outcome) {
	if intent.Quantity != nil && *intent.Quantity != 0 {
		return *intent.Quantity, nil
	}

	cash, err := e.brk.AvailableCash(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch margins", err, "symbol", intent.Symbol)
		return 0, &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("margins: %v", err)}
	}

	qty, err := e.sizer.Quantity(cash, price)
	if err != nil {
		return 0, &types.Outcome{Status: types.StatusFailed, Reason: fmt.Sprintf("sizing: %v", err)}
	}
	if qty == 0 {
		logger.Info(ctx, "Insufficient funds, skipping", "symbol", intent.Symbol, "cash", cash, "price", price)
		return 0, &types.Outcome{Status: types.StatusSkipped, Reason: "insufficient funds"}
	}
	return qty, nil
}

// confirmStatus fetches order history for a submitted leg. History failures
// never fail the orchestration; the leg is already live at the broker.
func (e *Engine) confirmStatus(ctx context.Context, orderID string) string {
	snap, err := e.brk.OrderHistory(ctx, orderID)
	if err != nil {
		logger.Warn(ctx, "Failed to confirm order status", "order_id", orderID, "error", err.Error())
		return "UNKNOWN"
	}
	return snap.Status
}
