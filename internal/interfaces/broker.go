package interfaces

import (
	"context"

	"github.com/priyankkodesianetspi/algo-bot/internal/types"
)

// Broker abstracts the broker's session and REST surface. Implementations own
// auth/session state; callers never touch the SDK client directly.
type Broker interface {
	// LTP returns the last traded price for a symbol.
	LTP(ctx context.Context, symbol string) (float64, error)

	// AvailableCash returns the live cash balance from the margins endpoint.
	AvailableCash(ctx context.Context) (float64, error)

	// Positions returns the current day position snapshot.
	Positions(ctx context.Context) ([]types.Position, error)

	// PlaceOrder submits one order and returns the broker-assigned order id.
	PlaceOrder(ctx context.Context, req types.OrderReq) (string, error)

	// OrderHistory returns the latest status for an order id.
	OrderHistory(ctx context.Context, orderID string) (types.OrderLeg, error)

	// RecentCandles fetches the last n historical candles for a symbol.
	RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error)

	// GenerateSession exchanges a request token for an access token and
	// persists it for the next startup.
	GenerateSession(ctx context.Context, requestToken string) error
}
