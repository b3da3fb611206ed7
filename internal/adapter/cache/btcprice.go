package cache

import (
	"context"
	"sync"
	"time"

	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/internal/metrics"
	"btc-goods-service/pkg/logger"
)

// DefaultBTCPriceUSD is the last-resort price when no fetch has ever
// succeeded and the upstream is down.
const DefaultBTCPriceUSD = 50000.0

// BTCPriceCache memoizes the BTC/USD price in a single slot. Within the TTL
// reads are served from the slot with no network call. On expiry the refresh
// is synchronous to the requester, but the slot stays readable: concurrent
// readers return the current value and are never blocked by a fetch in
// flight. A failed refresh degrades to the stale value (any age), then to
// DefaultBTCPriceUSD. Price never fails.
type BTCPriceCache struct {
	source  ports.PriceProvider
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics

	mutex sync.RWMutex
	quote model.PriceQuote
}

func NewBTCPriceCache(source ports.PriceProvider, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *BTCPriceCache {
	return &BTCPriceCache{
		source:  source,
		ttl:     ttl,
		log:     log,
		metrics: m,
	}
}

func (c *BTCPriceCache) Price(ctx context.Context) float64 {
	c.mutex.RLock()
	quote := c.quote
	c.mutex.RUnlock()

	if !quote.FetchedAt.IsZero() && time.Since(quote.FetchedAt) < c.ttl {
		c.metrics.BTCCacheHitsTotal.Inc()
		return quote.USD
	}
	c.metrics.BTCCacheMissesTotal.Inc()

	fresh, err := c.source.FetchUSD(ctx)
	if err != nil {
		c.metrics.UpstreamFailuresTotal.WithLabelValues(c.source.Name()).Inc()

		if !quote.FetchedAt.IsZero() {
			c.log.Warn("BTC price fetch failed, serving stale value",
				"error", err,
				"age", time.Since(quote.FetchedAt),
			)
			return quote.USD
		}

		c.log.Error("BTC price fetch failed with empty cache, serving default",
			"error", err,
			"default", DefaultBTCPriceUSD,
		)
		return DefaultBTCPriceUSD
	}

	c.mutex.Lock()
	c.quote = model.PriceQuote{USD: fresh, FetchedAt: time.Now()}
	c.mutex.Unlock()

	c.log.Debug("BTC price refreshed", "price", fresh)
	return fresh
}
