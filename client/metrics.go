package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	identityChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "originals_client",
			Name:      "identity_changes_total",
			Help:      "Wallet address changes, by direction.",
		},
		[]string{"kind"},
	)

	reconnectRefetchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "originals_client",
			Name:      "reconnect_refetches_total",
			Help:      "Queries refetched because connectivity came back.",
		},
	)
)
