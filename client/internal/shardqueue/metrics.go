package shardqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "refetch_queue",
		Name:      "submissions_total",
		Help:      "Jobs accepted into a shard.",
	}, []string{"shard"})

	queueFullTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "refetch_queue",
		Name:      "queue_full_total",
		Help:      "Submissions rejected because the shard stayed full.",
	}, []string{"shard"})

	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "refetch_queue",
		Name:      "failures_total",
		Help:      "Jobs whose final attempt returned an error or panicked.",
	}, []string{"shard"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "originals_client",
		Subsystem: "refetch_queue",
		Name:      "run_duration_seconds",
		Help:      "Duration of a single job attempt.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"shard"})

	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "originals_client",
		Subsystem: "refetch_queue",
		Name:      "depth",
		Help:      "Jobs waiting in a shard after the last run.",
	}, []string{"shard"})
)

func labelFor(shard int) string { return strconv.Itoa(shard) }
