package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var retryFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "retry",
	Name:      "failures_total",
	Help:      "Count of failed attempts that were scheduled for retry.",
}, []string{"operation"})

// Retry counts retried failures per operation.
type Retry struct{}

// NewRetry constructs a Retry collector.
func NewRetry() *Retry {
	return &Retry{}
}

// ObserveFailure records one failed attempt.
func (m Retry) ObserveFailure(operation string) {
	retryFailuresTotal.WithLabelValues(orUnknown(operation)).Inc()
}
