package metrics

// Package metrics exposes the outcome of a benchmark run as Prometheus
// metrics, written to a node-exporter textfile once the run ends.

import (
	"fmt"
	"strconv"

	"github.com/perfgo/kbench/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsNamespace = "kbench"

// Recorder collects metrics for test runs on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	wallSeconds        *prometheus.GaugeVec
	declaredSeconds    *prometheus.GaugeVec
	runsTotal          *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
}

// New creates a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		wallSeconds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "test_wall_seconds",
			Help:      "Wall clock seconds spent running a test case",
		}, []string{"test", "variant"}),
		declaredSeconds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "test_declared_seconds",
			Help:      "Elapsed seconds reported by the kernel on its Time line",
		}, []string{"test", "variant"}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "test_runs_total",
			Help:      "Count of test runs by exit status",
		}, []string{"variant", "status"}),
		verificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "verifications_total",
			Help:      "Count of result verifications against the reference",
		}, []string{"variant", "outcome"}),
	}
}

// RecordRun records a completed test run.
func (r *Recorder) RecordRun(run model.TestRun) {
	test := strconv.Itoa(run.Ordinal)
	variant := run.Variant.Tag()

	r.wallSeconds.WithLabelValues(test, variant).Set(run.WallTime.Seconds())
	if run.DeclaredTime != nil {
		r.declaredSeconds.WithLabelValues(test, variant).Set(*run.DeclaredTime)
	}
	r.runsTotal.WithLabelValues(variant, string(run.Status.Kind)).Inc()
	if run.Verification != "" {
		r.verificationsTotal.WithLabelValues(variant, run.Verification).Inc()
	}
}

// Registry returns the registry holding the recorded metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes the metrics in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
