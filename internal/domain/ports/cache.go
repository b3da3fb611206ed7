package ports

import "context"

// BTCPriceSource yields the current BTC/USD price. It never fails: the
// cache layer behind it degrades to a stale or default value instead.
type BTCPriceSource interface {
	Price(ctx context.Context) float64
}
