package ports

import "context"

// PriceProvider fetches the current USD price for one item. Implementations
// return an error on any upstream problem; the fail-soft fallback is applied
// by the caller, not here.
type PriceProvider interface {
	FetchUSD(ctx context.Context) (float64, error)
	Name() string
}
