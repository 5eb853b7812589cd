package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	brokerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "broker",
		Name:      "operations_total",
		Help:      "Count of queue broker operations.",
	}, []string{"operation", "queue", "status"})
	brokerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "broker",
		Name:      "operation_duration_seconds",
		Help:      "Duration of queue broker operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "queue", "status"})
)

// Broker tracks metrics for queue operations.
type Broker struct{}

// NewBroker creates a Broker metrics collector.
func NewBroker() *Broker {
	return &Broker{}
}

// Observe records a broker call against a queue.
func (m Broker) Observe(operation, queue string, err error, started time.Time) {
	s := status(err)
	brokerOperationsTotal.WithLabelValues(operation, queue, s).Inc()
	brokerOperationDuration.WithLabelValues(operation, queue, s).Observe(time.Since(started).Seconds())
}
