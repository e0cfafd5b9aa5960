package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apicache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apicache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apicache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "scan", "flush"
	)

	// InvalidatedKeys tracks keys removed by pattern invalidation.
	InvalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "apicache_invalidated_keys_total",
			Help: "Total number of keys removed by pattern invalidation",
		},
	)

	// HTTPRequests tracks middleware outcomes.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apicache_http_requests_total",
			Help: "Total middleware-observed requests by outcome",
		},
		[]string{"result"}, // "hit", "miss", "bypass"
	)
)
