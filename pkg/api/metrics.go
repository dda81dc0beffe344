package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "suggestd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	metricLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "suggestd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100µs to ~1.6s
		},
		[]string{"route"},
	)

	metricMatches = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "suggestd",
			Subsystem: "suggest",
			Name:      "matches",
			Help:      "Number of suggestions returned per query.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"strategy"},
	)

	metricRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "suggestd",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	metricDatasets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "suggestd",
		Name:      "datasets_loaded",
		Help:      "Number of datasets being served.",
	})
)
