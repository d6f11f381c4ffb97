// Package metrics defines the Prometheus collectors for note searches and
// exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result types recorded by SearchQueriesTotal.
const (
	ResultHit        = "hit"
	ResultZero       = "zero_result"
	ResultEmptyQuery = "empty_query"
	ResultError      = "error"
)

// Metrics holds all Prometheus collectors for the search service.
type Metrics struct {
	SearchQueriesTotal *prometheus.CounterVec
	SearchLatency      prometheus.Histogram
	DocumentsScanned   prometheus.Histogram
	FilesSkippedTotal  prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() to stay isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, empty_query, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "notes_search_latency_seconds",
				Help:    "Time to load the vault and rank it, in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
		DocumentsScanned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "notes_search_documents_scanned",
				Help:    "Number of notes ranked per search.",
				Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
			},
		),
		FilesSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "notes_search_files_skipped_total",
				Help: "Total note files skipped because they could not be read or parsed.",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.DocumentsScanned,
		m.FilesSkippedTotal,
	)
	return m
}

// ObserveSearch records one finished search.
func (m *Metrics) ObserveSearch(resultType string, took time.Duration, scanned, skipped int) {
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	m.SearchLatency.Observe(took.Seconds())
	m.DocumentsScanned.Observe(float64(scanned))
	if skipped > 0 {
		m.FilesSkippedTotal.Add(float64(skipped))
	}
}

// Handler serves the registered collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// StartServer exposes /metrics on addr in the background and returns the
// server's Shutdown.
func (m *Metrics) StartServer(addr string, logger *slog.Logger) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
