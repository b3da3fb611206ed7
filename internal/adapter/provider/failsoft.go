package provider

import (
	"context"

	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/internal/metrics"
	"btc-goods-service/pkg/logger"
)

// Resolver applies the fail-soft contract: every provider failure, of any
// kind, resolves to the item's documented fallback constant. A single
// upstream outage must never fail a conversion.
type Resolver struct {
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewResolver(log *logger.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		log:     log,
		metrics: m,
	}
}

func (r *Resolver) ResolveUSD(ctx context.Context, p ports.PriceProvider, fallback float64) float64 {
	price, err := p.FetchUSD(ctx)
	if err != nil {
		r.log.Warn("Provider fetch failed, using fallback price",
			"provider", p.Name(),
			"error", err,
			"fallback", fallback,
		)
		r.metrics.UpstreamFailuresTotal.WithLabelValues(p.Name()).Inc()
		return fallback
	}
	return price
}
