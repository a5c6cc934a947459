// Package metrics exposes Prometheus instrumentation for the pricing
// resolution layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts pricing lookups served per source tier
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "pricing",
		Name:      "lookups_total",
		Help:      "Pricing lookups by source tier.",
	}, []string{"tier"})

	// CacheMisses counts lookups that found no data at any tier
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "pricing",
		Name:      "misses_total",
		Help:      "Pricing lookups that found no data at any tier.",
	})

	// RemoteCalls counts calls issued to the remote pricing provider
	RemoteCalls = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "pricing",
		Name:      "remote_calls_total",
		Help:      "Requests issued to the remote pricing provider.",
	})

	// RemoteFailures counts remote provider failures after retries
	RemoteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "pricing",
		Name:      "remote_failures_total",
		Help:      "Remote provider failures demoted to cache misses.",
	})

	// FallbackResolutions counts rates derived from the static discount table
	FallbackResolutions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "resolution",
		Name:      "fallbacks_total",
		Help:      "Rates resolved through the static fallback discount table.",
	})

	// TermDowngrades counts 3yr commitments resolved at a 1yr quote
	TermDowngrades = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "resolution",
		Name:      "term_downgrades_total",
		Help:      "Commitment quotes satisfied after a term downgrade.",
	})

	// NegativeCostAnomalies counts clamped negative cost values
	NegativeCostAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetcost",
		Subsystem: "validation",
		Name:      "negative_cost_anomalies_total",
		Help:      "Negative computed costs clamped by the validation layer.",
	})
)
