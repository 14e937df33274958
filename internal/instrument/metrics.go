// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package instrument

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-stage Prometheus counters and latency histograms.
type Metrics struct {
	started  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the stage collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to keep runs isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		started: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deepdive",
			Name:      "stage_total",
			Help:      "Number of pipeline stages started.",
		}, []string{"stage"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deepdive",
			Name:      "stage_errors_total",
			Help:      "Number of errors reported by pipeline stages.",
		}, []string{"stage"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "deepdive",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of pipeline stages.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
	}
}

func (m *Metrics) Start(ctx context.Context, stage Stage) context.Context {
	m.started.WithLabelValues(string(stage)).Inc()
	return withStart(ctx, stage)
}

func (m *Metrics) Error(_ context.Context, stage Stage, _ error) {
	m.errors.WithLabelValues(string(stage)).Inc()
}

func (m *Metrics) End(ctx context.Context, stage Stage) {
	m.duration.WithLabelValues(string(stage)).Observe(elapsed(ctx, stage).Seconds())
}
