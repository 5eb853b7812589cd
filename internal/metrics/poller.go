package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollerCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "cycles_total",
		Help:      "Count of polling cycles.",
	}, []string{"component", "status"})
	pollerCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a polling cycle.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"component", "status"})
	pollerCycleItems = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "cycle_items",
		Help:      "Number of items handled per polling cycle.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"component"})
)

// Poller tracks cycles of a polling loop.
type Poller struct {
	component string
}

// NewPoller constructs a Poller collector.
func NewPoller(component string) *Poller {
	return &Poller{component: orUnknown(component)}
}

// ObserveCycle records one cycle and the number of items it handled.
func (m Poller) ObserveCycle(err error, items int, started time.Time) {
	s := status(err)
	pollerCyclesTotal.WithLabelValues(m.component, s).Inc()
	pollerCycleDuration.WithLabelValues(m.component, s).Observe(time.Since(started).Seconds())
	if err == nil {
		pollerCycleItems.WithLabelValues(m.component).Observe(float64(items))
	}
}
