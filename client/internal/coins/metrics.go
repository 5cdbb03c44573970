package coins

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "originals_client",
	Subsystem: "coin_cache",
	Name:      "lookups_total",
	Help:      "Coin and profile cache lookups by kind and result",
}, []string{"kind", "result"})
