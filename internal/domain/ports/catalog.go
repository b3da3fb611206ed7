package ports

import (
	"context"

	"btc-goods-service/internal/domain/model"
)

// ItemCatalog is the static item registry surface the service consumes.
type ItemCatalog interface {
	Lookup(key string) (model.Item, PriceProvider, bool)
	GroupByCategory() map[model.Category][]model.ItemDescriptor
}

// PriceResolver maps any provider failure to a fallback price.
type PriceResolver interface {
	ResolveUSD(ctx context.Context, p PriceProvider, fallback float64) float64
}
