package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Backend requests by method and status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "originals_client",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Backend request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func observe(method, status string, start time.Time) {
	requestsTotal.WithLabelValues(method, status).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
