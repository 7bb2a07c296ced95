package interfaces

import "github.com/priyankkodesianetspi/algo-bot/internal/types"

// Ledger is the durable, append-only record of every order leg submitted and
// every intent that failed before submission.
type Ledger interface {
	AppendOrderGroup(groupID string, legs []types.OrderLeg) error
	AppendMissedTrade(intent types.TradeIntent, price, targetPrice, stopLossPrice float64) error
	ListOrderIDs() ([]string, error)
}
