package brokerobs

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/interfaces"
	"github.com/priyankkodesianetspi/algo-bot/internal/logger"
	"github.com/priyankkodesianetspi/algo-bot/internal/trace"
	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

// LTP returns the last traded price with observability
func (ob *observableBroker) LTP(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	logger.Debug(ctx, "Fetching LTP", "symbol", symbol)

	price, err := ob.broker.LTP(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch LTP", err, "symbol", symbol)
		return 0, err
	}

	logger.Debug(ctx, "LTP fetched successfully", "symbol", symbol, "price", price)
	return price, nil
}

// AvailableCash reads the live balance with observability
func (ob *observableBroker) AvailableCash(ctx context.Context) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.AvailableCash")
	defer span.End()

	cash, err := ob.broker.AvailableCash(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch available cash", err)
		return 0, err
	}

	logger.Debug(ctx, "Available cash fetched", "cash", cash)
	return cash, nil
}

// Positions fetches the position snapshot with observability
func (ob *observableBroker) Positions(ctx context.Context) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Positions")
	defer span.End()

	positions, err := ob.broker.Positions(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch positions", err)
		return nil, err
	}

	logger.Debug(ctx, "Positions fetched successfully", "count", len(positions))
	return positions, nil
}

// PlaceOrder places an order with observability
func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (string, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.Info(ctx, "Placing order",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Quantity,
		"order_kind", req.OrderKind,
		"tag", req.Tag,
	)

	orderID, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Quantity,
			"tag", req.Tag,
		)
		return "", err
	}

	logger.Info(ctx, "Order placed successfully",
		"symbol", req.Symbol,
		"order_id", orderID,
		"tag", req.Tag,
	)
	return orderID, nil
}

// OrderHistory reads the latest order status with observability
func (ob *observableBroker) OrderHistory(ctx context.Context, orderID string) (types.OrderLeg, error) {
	ctx, span := trace.StartSpan(ctx, "broker.OrderHistory")
	defer span.End()

	leg, err := ob.broker.OrderHistory(ctx, orderID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch order history", err, "order_id", orderID)
		return types.OrderLeg{}, err
	}

	logger.Debug(ctx, "Order history fetched", "order_id", orderID, "status", leg.Status)
	return leg, nil
}

// RecentCandles fetches candles with observability
func (ob *observableBroker) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "broker.RecentCandles")
	defer span.End()

	logger.Debug(ctx, "Fetching recent candles", "symbol", symbol, "count", n)

	candles, err := ob.broker.RecentCandles(ctx, symbol, n)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candles", err, "symbol", symbol, "count", n)
		return nil, err
	}

	logger.Debug(ctx, "Candles fetched successfully", "symbol", symbol, "count", len(candles))
	return candles, nil
}

// GenerateSession runs the token exchange with observability
func (ob *observableBroker) GenerateSession(ctx context.Context, requestToken string) error {
	ctx, span := trace.StartSpan(ctx, "broker.GenerateSession")
	defer span.End()

	if err := ob.broker.GenerateSession(ctx, requestToken); err != nil {
		logger.ErrorWithErr(ctx, "Failed to generate session", err)
		return err
	}

	logger.Info(ctx, "Broker session generated")
	return nil
}
