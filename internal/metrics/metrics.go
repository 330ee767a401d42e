// Package metrics exposes the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts collection mutations by entity, operation, and
	// outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sherokitchen",
		Name:      "mutations_total",
		Help:      "Collection mutations by entity, operation, and outcome.",
	}, []string{"entity", "op", "outcome"})

	// StoreMode reports the persistence mode selected at startup; the
	// active mode's series is 1.
	StoreMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sherokitchen",
		Name:      "store_mode",
		Help:      "Active persistence mode (1 for the mode in use).",
	}, []string{"mode"})

	// HTTPRequests counts handled HTTP requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sherokitchen",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by method and status class.",
	}, []string{"method", "status"})
)

// SetStoreMode records the mode resolved by the persistence gateway.
func SetStoreMode(mode string) {
	StoreMode.Reset()
	StoreMode.WithLabelValues(mode).Set(1)
}

// ObserveMutation records one mutation attempt.
func ObserveMutation(entity, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Mutations.WithLabelValues(entity, op, outcome).Inc()
}
