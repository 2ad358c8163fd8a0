package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TicketsIssued prometheus.Counter
	TicketsExited prometheus.Counter
	Charges       prometheus.Histogram
	Errors        *prometheus.CounterVec
}

// New registers the parking metrics on reg. Pass prometheus.DefaultRegisterer
// in the service and a fresh registry in tests, registering twice panics.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TicketsIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_issued_total",
			Help:      "Tickets created by the entry operation",
		}),
		TicketsExited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_exited_total",
			Help:      "Tickets completed by the exit operation",
		}),
		Charges: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "charge_amount",
			Help:      "Charge returned per exit",
			Buckets:   []float64{0, 2.5, 5, 10, 20, 40, 80, 160},
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed operations by kind",
		}, []string{"operation", "kind"}),
	}
}
