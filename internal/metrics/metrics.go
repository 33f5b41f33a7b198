// Package metrics exports board counters as Prometheus gauges.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jayphen/opsboard/internal/board"
)

const namespace = "opsboard"

// Refresh results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics exposes Prometheus collectors that report the latest board.
type Metrics struct {
	tasks           *prometheus.GaugeVec
	bucketSize      *prometheus.GaugeVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	lastRefresh     prometheus.Gauge
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Registration errors panic. Collectors that are already registered with
// the same shape are reused.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		tasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tasks",
				Help:      "Board summary counters by kind (total, overdue, p0, p1, p2, done).",
			},
			[]string{"kind"},
		),
		bucketSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bucket_tasks",
				Help:      "Number of tasks in each dashboard section.",
			},
			[]string{"bucket"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refreshes_total",
				Help:      "Snapshot refreshes by result.",
			},
			[]string{"result"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refresh_duration_seconds",
				Help:      "Time spent fetching and classifying a snapshot.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		lastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_refresh_timestamp_seconds",
				Help:      "Unix time of the last successful refresh.",
			},
		),
	}

	m.tasks = register(reg, m.tasks)
	m.bucketSize = register(reg, m.bucketSize)
	m.refreshes = register(reg, m.refreshes)
	m.refreshDuration = register(reg, m.refreshDuration)
	m.lastRefresh = register(reg, m.lastRefresh)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Observe sets every gauge from b.
func (m *Metrics) Observe(b board.Board) {
	if m == nil {
		return
	}
	s := b.Stats
	m.tasks.WithLabelValues("total").Set(float64(s.Total))
	m.tasks.WithLabelValues("overdue").Set(float64(s.Overdue))
	m.tasks.WithLabelValues("p0").Set(float64(s.P0))
	m.tasks.WithLabelValues("p1").Set(float64(s.P1))
	m.tasks.WithLabelValues("p2").Set(float64(s.P2))
	m.tasks.WithLabelValues("done").Set(float64(s.Done))

	m.bucketSize.WithLabelValues("overdue").Set(float64(len(b.Overdue)))
	m.bucketSize.WithLabelValues("active_high_priority").Set(float64(len(b.ActiveHighPriority)))
	m.bucketSize.WithLabelValues("active_other").Set(float64(len(b.ActiveOther)))
}

// ObserveRefresh records one refresh attempt. Gauges keep their previous
// values when a refresh fails.
func (m *Metrics) ObserveRefresh(err error, duration time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.refreshDuration.Observe(duration.Seconds())
	if err != nil {
		m.refreshes.WithLabelValues(ResultError).Inc()
		return
	}
	m.refreshes.WithLabelValues(ResultOK).Inc()
	m.lastRefresh.Set(float64(at.Unix()))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
