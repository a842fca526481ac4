package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UserSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "library", Name: "user_sync_total", Help: "Identity reconciliation results by outcome."},
		[]string{"outcome"},
	)
	UserCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "library", Name: "user_cache_hits_total", Help: "User cache hits by cache name."},
		[]string{"cache"},
	)
	UserCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "library", Name: "user_cache_misses_total", Help: "User cache misses by cache name."},
		[]string{"cache"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "library", Name: "http_requests_total", Help: "HTTP requests by method and status class."},
		[]string{"method", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(UserSyncTotal)
	reg.MustRegister(UserCacheHits)
	reg.MustRegister(UserCacheMisses)
	reg.MustRegister(HTTPRequestsTotal)
}
