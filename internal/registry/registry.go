package registry

import (
	"btc-goods-service/internal/adapter/provider"
	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
)

type entry struct {
	item     model.Item
	provider ports.PriceProvider
}

// Registry is the static item catalogue. Built once at startup; lookups
// only after that.
type Registry struct {
	items map[string]entry
	order []string
}

// Sources holds the upstream clients items bind to.
type Sources struct {
	AlphaVantage *provider.AlphaVantage
	FRED         *provider.FRED
	BLS          *provider.BLS
}

func New(src Sources) *Registry {
	r := &Registry{items: make(map[string]entry)}

	r.add(model.Item{Key: "oil", Category: model.Energy, Unit: "barrel", FallbackUSD: 75.0},
		src.AlphaVantage.Commodity("WTI", "oil"))
	r.add(model.Item{Key: "gasoline", Category: model.Energy, Unit: "gallon", FallbackUSD: 3.50, Historical: true, SeriesID: "APU000074714"},
		src.BLS.Series("APU000074714", "gasoline"))
	r.add(model.Item{Key: "natural_gas", Category: model.Energy, Unit: "MMBtu", FallbackUSD: 3.50},
		src.AlphaVantage.Commodity("NATURAL_GAS", "natural_gas"))

	r.add(model.Item{Key: "gold", Category: model.Commodities, Unit: "ounce", FallbackUSD: 2000.0},
		src.AlphaVantage.Metal("XAU", "gold"))
	r.add(model.Item{Key: "silver", Category: model.Commodities, Unit: "ounce", FallbackUSD: 25.0},
		src.AlphaVantage.Metal("XAG", "silver"))

	r.add(model.Item{Key: "bread", Category: model.Food, Unit: "loaf", FallbackUSD: 2.50, Historical: true, SeriesID: "APU0000702111"},
		src.FRED.Latest("APU0000702111", "bread"))
	r.add(model.Item{Key: "milk", Category: model.Food, Unit: "gallon", FallbackUSD: 3.80, Historical: true, SeriesID: "APU0000709112"},
		src.FRED.Latest("APU0000709112", "milk"))
	r.add(model.Item{Key: "coffee", Category: model.Food, Unit: "pound", FallbackUSD: 4.50, Historical: true, SeriesID: "APU0000717311"},
		src.FRED.Latest("APU0000717311", "coffee"))
	r.add(model.Item{Key: "eggs", Category: model.Food, Unit: "dozen", FallbackUSD: 2.20, Historical: true, SeriesID: "APU0000708111"},
		src.FRED.Latest("APU0000708111", "eggs"))
	r.add(model.Item{Key: "big_mac", Category: model.Food, Unit: "burger", FallbackUSD: 5.50},
		provider.Static("big_mac", 5.50))

	r.add(model.Item{Key: "median_home", Category: model.Housing, Unit: "house", FallbackUSD: 420000.0, Historical: true, SeriesID: "MSPUS"},
		src.FRED.Latest("MSPUS", "median_home"))

	// CUSR0000SETA01 is a CPI index, not a dollar price; it is scaled
	// against the fallback base amount.
	r.add(model.Item{Key: "new_car", Category: model.Transportation, Unit: "car", FallbackUSD: 48000.0, Historical: true, SeriesID: "CUSR0000SETA01"},
		src.FRED.LatestIndexed("CUSR0000SETA01", "new_car", 48000.0))
	r.add(model.Item{Key: "uber_ride", Category: model.Transportation, Unit: "ride", FallbackUSD: 15.00},
		provider.Static("uber_ride", 15.00))

	r.add(model.Item{Key: "netflix", Category: model.Entertainment, Unit: "month", FallbackUSD: 15.49},
		provider.Static("netflix", 15.49))
	r.add(model.Item{Key: "spotify", Category: model.Entertainment, Unit: "month", FallbackUSD: 10.99},
		provider.Static("spotify", 10.99))
	r.add(model.Item{Key: "movie_ticket", Category: model.Entertainment, Unit: "ticket", FallbackUSD: 12.00},
		provider.Static("movie_ticket", 12.00))

	return r
}

func (r *Registry) add(item model.Item, p ports.PriceProvider) {
	r.items[item.Key] = entry{item: item, provider: p}
	r.order = append(r.order, item.Key)
}

func (r *Registry) Lookup(key string) (model.Item, ports.PriceProvider, bool) {
	e, found := r.items[key]
	if !found {
		return model.Item{}, nil, false
	}
	return e.item, e.provider, true
}

// GroupByCategory lists item descriptors per category. Lists follow table
// order; iterate model.CategoryOrder for a stable category sequence.
func (r *Registry) GroupByCategory() map[model.Category][]model.ItemDescriptor {
	grouped := make(map[model.Category][]model.ItemDescriptor)
	for _, key := range r.order {
		e := r.items[key]
		grouped[e.item.Category] = append(grouped[e.item.Category], model.ItemDescriptor{
			Key:        e.item.Key,
			Name:       e.item.DisplayName(),
			Unit:       e.item.Unit,
			Historical: e.item.Historical,
		})
	}
	return grouped
}
