package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TierTransport  = "transport"
	TierLogical    = "logical"
	TierValidation = "validation"
)

// prometheus metrics setup
var (
	PrometheusRequestDurations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fdoconf",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "The duration of each request sent to the conformance backend",
		Buckets:   prometheus.LinearBuckets(0.01, 0.05, 10),
	}, []string{"family", "method"})

	PrometheusRequestErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdoconf",
		Subsystem: "client",
		Name:      "request_errors_total",
		Help:      "The number of failed calls by endpoint family and error tier",
	}, []string{"family", "tier"})
)

func init() {
	prometheus.MustRegister(PrometheusRequestDurations, PrometheusRequestErrorCounter)
}

// ObserveRequest returns a timer for one request. Call ObserveDuration when the response is read.
func ObserveRequest(family string, method string) *prometheus.Timer {
	return prometheus.NewTimer(PrometheusRequestDurations.WithLabelValues(family, method))
}

// CountError records a failed call
func CountError(family string, tier string) {
	PrometheusRequestErrorCounter.WithLabelValues(family, tier).Inc()
}
