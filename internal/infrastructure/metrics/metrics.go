package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics.
type Metrics struct {
	MovementsRecorded *prometheus.CounterVec
	MovementsRejected *prometheus.CounterVec
	BalanceCents      prometheus.Gauge
}

// New creates and registers the ledger metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MovementsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinyledger_movements_recorded_total",
				Help: "Total number of movements recorded, by type",
			},
			[]string{"type"},
		),
		MovementsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tinyledger_movements_rejected_total",
				Help: "Total number of rejected movement requests, by reason",
			},
			[]string{"reason"},
		),
		BalanceCents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tinyledger_balance_cents",
			Help: "Current ledger balance in cents",
		}),
	}
}
