package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windstep_http_requests_total",
			Help: "Total API requests served",
		},
		[]string{"route", "status"},
	)

	ProjectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "windstep_projection_duration_seconds",
			Help:    "Time spent computing yield projections",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"horizon"},
	)

	KMAAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windstep_kma_api_calls_total",
			Help: "Total KMA forecast service calls",
		},
		[]string{"endpoint", "status"},
	)

	KMACacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windstep_kma_cache_hits_total",
			Help: "KMA responses served from the in-process cache",
		},
		[]string{"endpoint"},
	)
)
