package interfaces

import "context"

// NewsRater scores recent news for a symbol on the original 0..5 scale:
// 0 = nothing found, 1 = very bad, 5 = very good.
type NewsRater interface {
	Rating(ctx context.Context, symbol string) (int, error)
}
