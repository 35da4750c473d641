package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	Operations *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockd",
		Name:      "operations_total",
		Help:      "Inventory operations by action and outcome.",
	}, []string{"action", "outcome"})
	reg.MustRegister(operations)
	return &Metrics{Operations: operations}
}

func (m *Metrics) Record(action, outcome string) {
	m.Operations.WithLabelValues(action, outcome).Inc()
}
