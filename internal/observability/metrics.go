package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "notamd"

// Metrics holds the Prometheus counters, histograms, and gauges for the NOTAM service.
type Metrics struct {
	FetchesTotal   prometheus.Counter
	FetchDuration  prometheus.Histogram
	WorkingSetSize prometheus.Gauge
	AutoRefresh    prometheus.Gauge

	// Projection cache lookups.
	ProjectionCache *prometheus.CounterVec // labels: result={hit,miss}

	// Working set publishing.
	PublishAttempts *prometheus.CounterVec // labels: outcome={success,error}

	// Source registry status.
	SourceConnects   *prometheus.CounterVec // labels: source, outcome={connected,error}
	SourcesConnected prometheus.Gauge
	ProbeDuration    *prometheus.HistogramVec // labels: source

	// HTTP API.
	APIRequests     *prometheus.CounterVec // labels: route, code
	APIRateLimited  prometheus.Counter
	ExportsArchived prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Total working set recomputations, manual and automatic.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a fetch including publishing.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		WorkingSetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "working_set_size",
			Help:      "Number of NOTAMs in the current working set.",
		}),
		AutoRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "auto_refresh_running",
			Help:      "1 when the auto-refresh loop is active, 0 otherwise.",
		}),
		ProjectionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_total",
			Help:      "Projection cache lookups by result.",
		}, []string{"result"}),
		PublishAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_attempts_total",
			Help:      "Working set publish attempts by outcome.",
		}, []string{"outcome"}),
		SourceConnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_connects_total",
			Help:      "Source connection attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		SourcesConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sources_connected",
			Help:      "Number of sources currently marked connected.",
		}),
		ProbeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_probe_duration_seconds",
			Help:      "Reachability probe duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		APIRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_rate_limited_total",
			Help:      "API requests rejected by the rate limiter.",
		}),
		ExportsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_archived_total",
			Help:      "CSV exports written to the archive bucket.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FetchesTotal,
		m.FetchDuration,
		m.WorkingSetSize,
		m.AutoRefresh,
		m.ProjectionCache,
		m.PublishAttempts,
		m.SourceConnects,
		m.SourcesConnected,
		m.ProbeDuration,
		m.APIRequests,
		m.APIRateLimited,
		m.ExportsArchived,
	}
}
