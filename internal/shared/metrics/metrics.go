package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors used across the service.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ImportRows      *prometheus.CounterVec
	Exports         *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBPoolConns     *prometheus.GaugeVec
}

// NewMetrics registers every collector on reg.
// Tests pass prometheus.NewRegistry() to avoid clashing with the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vcard_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ImportRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_import_rows_total",
			Help: "Rows processed by the bulk importer.",
		}, []string{"outcome"}), // outcome: created, skipped
		Exports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vcard_exports_total",
			Help: "Card exports by kind and outcome.",
		}, []string{"kind", "outcome"}), // kind: png, vcf, native
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vcard_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}),
		DBPoolConns: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "vcard_db_pool_connections",
			Help: "pgx pool connections by state.",
		}, []string{"state"}), // acquired, idle, total, max
	}

	m.ImportRows.WithLabelValues("created")
	m.ImportRows.WithLabelValues("skipped")

	return m
}

// ObserveQuery records the duration of a store call started at start.
func (m *Metrics) ObserveQuery(queryType string, start time.Time) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
}

// CountExport increments the export counter; nil-safe for tests.
func (m *Metrics) CountExport(kind, outcome string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(kind, outcome).Inc()
}

// CountImport adds created and skipped rows; nil-safe for tests.
func (m *Metrics) CountImport(created, skipped int) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues("created").Add(float64(created))
	m.ImportRows.WithLabelValues("skipped").Add(float64(skipped))
}

// SetPoolConns cập nhật gauges của pgx pool
func (m *Metrics) SetPoolConns(acquired, idle, total, max int32) {
	if m == nil {
		return
	}
	m.DBPoolConns.WithLabelValues("acquired").Set(float64(acquired))
	m.DBPoolConns.WithLabelValues("idle").Set(float64(idle))
	m.DBPoolConns.WithLabelValues("total").Set(float64(total))
	m.DBPoolConns.WithLabelValues("max").Set(float64(max))
}
