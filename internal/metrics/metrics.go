// Package metrics exposes fan-out and like counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"Murmur/internal/core/likes"
)

const namespace = "murmur"

// Metrics implements posts.FanoutObserver and likes.Metrics
type Metrics struct {
	fanoutRuns     *prometheus.CounterVec
	fanoutFeeds    prometheus.Counter
	fanoutFailures prometheus.Counter
	fanoutDuration prometheus.Histogram
	likes          *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fanoutRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "runs_total",
			Help:      "Fan-out runs by outcome.",
		}, []string{"outcome"}),
		fanoutFeeds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "feeds_attempted_total",
			Help:      "Feed index inserts attempted by fan-out.",
		}),
		fanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "feeds_failed_total",
			Help:      "Feed index inserts that failed after retries.",
		}),
		fanoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "duration_seconds",
			Help:      "Wall time of a fan-out run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_total",
			Help:      "Like requests by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.fanoutRuns, m.fanoutFeeds, m.fanoutFailures, m.fanoutDuration, m.likes)
	return m
}

// ObserveFanout records one fan-out run
func (m *Metrics) ObserveFanout(attempted, failed int, elapsed time.Duration, err error) {
	outcome := "complete"
	switch {
	case err != nil && attempted == 0:
		// follower lookup failed; no feed was tried
		outcome = "aborted"
	case err != nil || failed > 0:
		outcome = "partial"
	}
	m.fanoutRuns.WithLabelValues(outcome).Inc()
	m.fanoutFeeds.Add(float64(attempted))
	m.fanoutFailures.Add(float64(failed))
	m.fanoutDuration.Observe(elapsed.Seconds())
}

// ObserveLike records the outcome of one like request
func (m *Metrics) ObserveLike(status likes.Status) {
	m.likes.WithLabelValues(string(status)).Inc()
}
