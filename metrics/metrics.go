// Package metrics provides Prometheus metrics for content loading and the
// content API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "unentropy"

// Metrics holds all Prometheus metrics for the site tooling.
type Metrics struct {
	// Content metrics
	FilesLoaded        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	UnresolvedAuthors  prometheus.Counter
	IndexedPosts       prometheus.Gauge
	IndexedDocs        prometheus.Gauge

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_files_loaded_total",
			Help:      "Content files read from disk, by collection",
		}, []string{"collection"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_validation_failures_total",
			Help:      "Content files rejected by frontmatter validation, by collection",
		}, []string{"collection"}),
		UnresolvedAuthors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_unresolved_authors_total",
			Help:      "Author identifiers not found in the directory",
		}),
		IndexedPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_posts",
			Help:      "Blog posts currently stored in the content index",
		}),
		IndexedDocs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_docs",
			Help:      "Documentation pages currently stored in the content index",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Content API requests, by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Content API request latency",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"route"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.FilesLoaded,
			m.ValidationFailures,
			m.UnresolvedAuthors,
			m.IndexedPosts,
			m.IndexedDocs,
			m.RequestsTotal,
			m.RequestDuration,
		)
	}
	return m
}
