package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcilerCheckedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "addresses_checked_total",
		Help:      "Count of addresses compared against the movement journal.",
	})
	reconcilerMismatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "mismatches_total",
		Help:      "Count of addresses whose stored totals differ from the journal.",
	})
	reconcilerLastMismatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "reconciler",
		Name:      "last_run_mismatches",
		Help:      "Mismatched addresses found by the most recent run.",
	})
)

// Reconciler tracks journal reconciliation results.
type Reconciler struct{}

// NewReconciler constructs a Reconciler collector.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ObserveRun records the results of one reconciliation pass.
func (m Reconciler) ObserveRun(checked, mismatched int) {
	reconcilerCheckedTotal.Add(float64(checked))
	reconcilerMismatchesTotal.Add(float64(mismatched))
	reconcilerLastMismatches.Set(float64(mismatched))
}
