package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded by pgtpch_runs_total.
const (
	OutcomeSucceeded       = "succeeded"
	OutcomeFailed          = "failed"
	OutcomeSkipped         = "skipped"
	OutcomeAnalysisAborted = "analysis_aborted"
)

// Pair results recorded by pgtpch_pairs_total.
const (
	PairProcessed        = "processed"
	PairMissingReference = "missing_reference"
)

// Metrics holds the collectors for both binaries, registered on a private
// registry so tests and commands never share state.
type Metrics struct {
	Registry    *prometheus.Registry
	Runs        *prometheus.CounterVec
	Pairs       *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.Runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgtpch_runs_total",
			Help: "Total number of benchmark configurations processed, by outcome",
		},
		[]string{"outcome"},
	)

	m.Pairs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgtpch_pairs_total",
			Help: "Total number of test/reference pairs considered by the aggregator",
		},
		[]string{"result"},
	)

	m.RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pgtpch_run_duration_seconds",
			Help:    "Wall-clock duration of benchmark script invocations",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)

	m.Registry.MustRegister(m.Runs, m.Pairs, m.RunDuration)
	return m
}

// TrackRun counts one configuration with the given outcome.
func (m *Metrics) TrackRun(outcome string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
}

// ObserveRunDuration records how long a script invocation took.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// TrackPair counts one aggregator pair lookup.
func (m *Metrics) TrackPair(result string) {
	if m == nil {
		return
	}
	m.Pairs.WithLabelValues(result).Inc()
}

// WriteTextfile writes the current metric values in the text exposition
// format, for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

// StartMetricsServer serves /metrics on addr until ctx is cancelled.
func (m *Metrics) StartMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	LogInfo("Starting metrics server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
