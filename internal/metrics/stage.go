package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stage",
		Name:      "messages_total",
		Help:      "Count of queue messages handled by a pipeline stage, by outcome.",
	}, []string{"stage", "outcome"})
	stageMessageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "stage",
		Name:      "message_duration_seconds",
		Help:      "Time spent handling a single queue message.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
	}, []string{"stage", "outcome"})
)

// Stage tracks message handling of one pipeline stage.
type Stage struct {
	stage string
}

// NewStage constructs a Stage collector.
func NewStage(stage string) *Stage {
	return &Stage{stage: orUnknown(stage)}
}

// ObserveMessage records the outcome of a handled message.
func (m Stage) ObserveMessage(outcome string, started time.Time) {
	stageMessagesTotal.WithLabelValues(m.stage, outcome).Inc()
	stageMessageDuration.WithLabelValues(m.stage, outcome).Observe(time.Since(started).Seconds())
}
