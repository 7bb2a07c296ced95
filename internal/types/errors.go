package types

import "errors"

// Error taxonomy. Pre-trade rejections (ErrUnauthorized, ErrWindowClosed,
// ErrRiskLimitExceeded, ErrUnknownSymbol) terminate an invocation before any
// broker order call. ErrBroker and ErrOracle wrap remote failures so callers
// can branch with errors.Is while keeping the cause in the chain.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownSymbol     = errors.New("unknown symbol")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrWindowClosed      = errors.New("trading window closed")
	ErrRiskLimitExceeded = errors.New("risk limit exceeded")
	ErrBroker            = errors.New("broker error")
	ErrOracle            = errors.New("oracle error")
)
