package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "surveypulse"

// Metrics holds the Prometheus instruments of the import pipeline and
// dashboard. Each instance carries its own registry so tests do not
// collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	ImportsTotal      prometheus.Counter
	ImportFailures    prometheus.Counter
	InvalidRowsTotal  prometheus.Counter
	RecordsCurrent    prometheus.Gauge
	ImportDuration    prometheus.Histogram
	DashboardRequests prometheus.Counter
}

// NewMetrics creates and registers the application metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ImportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "imports_total",
			Help:      "Number of successful dataset imports.",
		}),
		ImportFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "import_failures_total",
			Help:      "Number of imports aborted by a file level error.",
		}),
		InvalidRowsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invalid_rows_total",
			Help:      "Number of rows rejected by shape validation.",
		}),
		RecordsCurrent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "records_current",
			Help:      "Records in the canonical dataset.",
		}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent parsing and normalizing an upload.",
			Buckets:   prometheus.DefBuckets,
		}),
		DashboardRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "dashboard_requests_total",
			Help:      "Number of dashboard derivations served.",
		}),
	}
}

// Registry exposes the underlying registry for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
