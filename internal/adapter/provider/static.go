package provider

import (
	"context"

	"btc-goods-service/internal/domain/ports"
)

// Static returns a provider with a fixed USD price, used for items that
// have no live feed (subscriptions, typical ride fares, etc).
func Static(name string, usd float64) ports.PriceProvider {
	return &staticPrice{name: name, usd: usd}
}

type staticPrice struct {
	name string
	usd  float64
}

func (s *staticPrice) Name() string {
	return s.name
}

func (s *staticPrice) FetchUSD(ctx context.Context) (float64, error) {
	return s.usd, nil
}
