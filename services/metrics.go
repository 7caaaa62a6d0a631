package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/malusev998/money"
)

const metricsNamespace = "money"

// Metrics collects converter statistics. A nil *Metrics records nothing.
type Metrics struct {
	conversions       *prometheus.CounterVec
	refreshes         *prometheus.CounterVec
	snapshotFetchedAt *prometheus.GaugeVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversions_total",
			Help:      "Number of currency conversions by kind and result.",
		}, []string{"kind", "result"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_refreshes_total",
			Help:      "Number of rate snapshot refreshes by provider and result.",
		}, []string{"provider", "result"}),
		snapshotFetchedAt: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "rate_snapshot_fetched_timestamp_seconds",
			Help:      "Unix time the current rate snapshot was fetched at.",
		}, []string{"provider"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}

func (m *Metrics) conversion(kind Kind, err error) {
	if m == nil {
		return
	}

	if kind == "" {
		kind = "unknown"
	}

	m.conversions.WithLabelValues(string(kind), result(err)).Inc()
}

func (m *Metrics) refresh(provider money.Provider, err error) {
	if m == nil {
		return
	}

	m.refreshes.WithLabelValues(provider.String(), result(err)).Inc()
}

func (m *Metrics) snapshot(snapshot money.RateSnapshot) {
	if m == nil {
		return
	}

	m.snapshotFetchedAt.WithLabelValues(snapshot.Provider.String()).Set(float64(snapshot.FetchedAt.Unix()))
}
