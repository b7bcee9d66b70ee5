package navigation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	outcomeOK          = "ok"
	outcomeEmpty       = "empty"
	outcomeNoServer    = "no_server"
	outcomeUnsupported = "unsupported"
	outcomeMalformed   = "malformed"
	outcomeCanceled    = "canceled"
	outcomeError       = "error"
)

var (
	navigationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsp_navigator_requests_total",
		Help: "Navigation requests by method and outcome",
	}, []string{"method", "outcome"})

	navigationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lsp_navigator_request_duration_seconds",
		Help:    "Navigation request latency including location resolution",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method"})

	// skippedLocations counts locations dropped during resolution by reason
	skippedLocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lsp_navigator_skipped_locations_total",
		Help: "Locations dropped during resolution",
	}, []string{"reason"})
)
