package onboarding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "onboarding",
		Name:      "transitions_total",
		Help:      "Onboarding state transitions by target state",
	}, []string{"state"})

	watchdogFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "originals_client",
		Subsystem: "onboarding",
		Name:      "watchdog_fired_total",
		Help:      "Checks forced to not_onboarded by the watchdog",
	})
)
