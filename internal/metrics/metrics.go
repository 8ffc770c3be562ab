package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Alturino/storefront/internal/constants"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.APP_NAME,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.APP_NAME,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CartItemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constants.APP_NAME,
		Name:      "cart_items_added_total",
		Help:      "Total quantity added to carts",
	})

	CartClears = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constants.APP_NAME,
		Name:      "cart_clears_total",
		Help:      "Total number of cart clears",
	})

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.APP_NAME,
			Name:      "product_cache_requests_total",
			Help:      "Product cache lookups by result",
		},
		[]string{"result"},
	)
)
