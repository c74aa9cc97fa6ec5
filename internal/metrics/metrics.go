// Package metrics exposes Prometheus metrics for swap and connect outcomes.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gdaSwap/internal/model"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	Outcomes         *prometheus.CounterVec
	MembershipPolls  prometheus.Counter
	MemberConnected  prometheus.Gauge
	MemberConnecting prometheus.Gauge
	LastObservation  prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "gda_swap"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "outcomes_total",
			Help:      "Outcome transitions by operation and status",
		}, []string{"operation", "status"}),
		MembershipPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "observations_total",
			Help:      "Total number of membership observations",
		}),
		MemberConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "connected",
			Help:      "1 when the account is connected to the distribution pool",
		}),
		MemberConnecting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "connecting",
			Help:      "1 while a connect transaction is awaiting confirmations",
		}),
		LastObservation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "membership",
			Name:      "last_observation_timestamp_seconds",
			Help:      "Unix time of the latest membership observation",
		}),
	}

	m.registry.MustRegister(
		m.Outcomes,
		m.MembershipPolls,
		m.MemberConnected,
		m.MemberConnecting,
		m.LastObservation,
	)
	return m
}

// PutOutcome counts an outcome record, so Metrics can sit in a storage.Multi.
func (m *Metrics) PutOutcome(_ context.Context, record model.OutcomeRecord) error {
	m.Outcomes.WithLabelValues(record.Operation, record.Status).Inc()
	return nil
}

// ObserveMembership records a membership observation.
func (m *Metrics) ObserveMembership(state model.MembershipState) {
	m.MembershipPolls.Inc()
	m.MemberConnected.Set(boolToFloat(state.Connected))
	m.MemberConnecting.Set(boolToFloat(state.Connecting))
	if !state.ObservedAt.IsZero() {
		m.LastObservation.Set(float64(state.ObservedAt.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
