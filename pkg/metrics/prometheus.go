package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for upstream requests.
const (
	OutcomeOK       = "ok"
	OutcomeNetwork  = "network_error"
	OutcomeAPI      = "api_error"
	OutcomeRejected = "rejected"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	StaleResponses   *prometheus.CounterVec
	MockRequests     *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Passing a fresh registry per
// instance keeps tests from colliding on the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the flight search API",
		}, []string{"operation", "outcome"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of flight search API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		StaleResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request superseded them",
		}, []string{"operation"}),
		MockRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mock_requests_total",
			Help:      "Requests served by the mock upstream",
		}, []string{"endpoint"}),
	}
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}
