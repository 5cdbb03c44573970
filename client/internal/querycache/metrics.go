package querycache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "query_cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by result (hit, miss, joined, held)",
	}, []string{"result"})

	invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "query_cache",
		Name:      "invalidations_total",
		Help:      "Entries marked stale",
	})

	discardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "query_cache",
		Name:      "discarded_results_total",
		Help:      "Fetch results dropped because the entry or identity changed meanwhile",
	})

	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "originals_client",
		Subsystem: "query_cache",
		Name:      "entries",
		Help:      "Entries currently cached",
	})
)
