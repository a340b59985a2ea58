// Package metrics exposes dashboard recompute and dataset reload metrics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/logger"
)

const namespace = "bikeshare_dashboard"

// Reload outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the counters, histograms and gauges of one dashboard process.
// Each instance owns its registry so tests and multiple managers never collide.
type Metrics struct {
	registry *prometheus.Registry

	Recomputes        prometheus.Counter
	EmptyResults      prometheus.Counter
	RecomputeDuration prometheus.Histogram
	DatasetRows       prometheus.Gauge
	DatasetReloads    *prometheus.CounterVec // labels: outcome={success,error}
}

// New creates and registers all metrics with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputes_total",
			Help:      "Total filter recomputations.",
		}),
		EmptyResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_results_total",
			Help:      "Recomputations where no record matched the filters.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a filter and aggregate pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the current dataset snapshot.",
		}),
		DatasetReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Dataset reloads by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.Recomputes,
		m.EmptyResults,
		m.RecomputeDuration,
		m.DatasetRows,
		m.DatasetReloads,
	)

	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRecompute records one recomputation.
func (m *Metrics) ObserveRecompute(d time.Duration, empty bool) {
	m.Recomputes.Inc()
	m.RecomputeDuration.Observe(d.Seconds())
	if empty {
		m.EmptyResults.Inc()
	}
}

// ObserveReload records a reload attempt and, on success, the new row count.
func (m *Metrics) ObserveReload(rows int, err error) {
	if err != nil {
		m.DatasetReloads.WithLabelValues(OutcomeError).Inc()
		return
	}
	m.DatasetReloads.WithLabelValues(OutcomeSuccess).Inc()
	m.DatasetRows.Set(float64(rows))
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server exposes the metrics endpoint over HTTP.
type Server struct {
	httpServer *http.Server
}

// NewServer creates an HTTP server with a /metrics route.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	logger.Info("metrics server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
