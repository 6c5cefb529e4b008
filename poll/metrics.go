package poll

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSatisfied = "satisfied"
	outcomeHeld      = "held"
	outcomeFailed    = "failed"
	outcomeTimedOut  = "timed_out"
	outcomeCancelled = "cancelled"
)

var (
	metricWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "selene",
		Subsystem: "poll",
		Name:      "waits_total",
		Help:      "Finished waits by outcome.",
	}, []string{"outcome"})
	metricTicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "selene",
		Subsystem: "poll",
		Name:      "ticks_total",
		Help:      "Condition evaluations across all waits.",
	})
	metricWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "selene",
		Subsystem: "poll",
		Name:      "wait_seconds",
		Help:      "Time spent inside a wait, whatever the outcome.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

func recordWait(outcome string, start time.Time) {
	metricWaits.WithLabelValues(outcome).Inc()
	metricWaitSeconds.Observe(time.Since(start).Seconds())
}
