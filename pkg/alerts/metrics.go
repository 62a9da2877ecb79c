package alerts

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var metrics = []prometheus.Collector{
	passCount,
	budgetCount,
}

// RegisterMetrics registers the metrics of the alert pass with the registerer.
func RegisterMetrics(r prometheus.Registerer) error {
	for _, c := range metrics {
		if err := r.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// UnregisterMetrics removes the metrics of the alert pass from the registerer.
func UnregisterMetrics(r prometheus.Registerer) {
	for _, c := range metrics {
		r.Unregister(c)
	}
}

var passCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "budget_alert_passes_total",
		Help: "How many budget alert passes ran, partitioned by result.",
	},
	[]string{"result"},
)

var budgetCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "budget_alert_budgets_total",
		Help: "How many budgets were evaluated, partitioned by outcome.",
	},
	[]string{"outcome"},
)
