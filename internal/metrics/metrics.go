package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ItemsRequestsTotal      prometheus.Counter
	ConversionRequestsTotal prometheus.Counter
	HistoricalRequestsTotal prometheus.Counter

	UpstreamFailuresTotal *prometheus.CounterVec
	BTCCacheHitsTotal     prometheus.Counter
	BTCCacheMissesTotal   prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		ItemsRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "items_requests_total",
				Help: "Total number of item listing requests",
			},
		),

		ConversionRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of BTC/item conversion requests",
			},
		),

		HistoricalRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "historical_requests_total",
				Help: "Total number of historical series requests",
			},
		),

		UpstreamFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_failures_total",
				Help: "Total number of upstream provider failures resolved to fallback values",
			},
			[]string{"provider"},
		),

		BTCCacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "btc_price_cache_hits_total",
				Help: "Total number of BTC price requests served from cache",
			},
		),

		BTCCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "btc_price_cache_misses_total",
				Help: "Total number of BTC price requests requiring an upstream fetch",
			},
		),
	}
}
