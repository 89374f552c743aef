package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"vcard-backend/internal/shared/metrics"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)

	m.CountImport(3, 2)
	m.CountExport("png", "success")
	m.ObserveQuery("list_all", time.Now())

	assert.InDelta(t, 3, testutil.ToFloat64(m.ImportRows.WithLabelValues("created")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ImportRows.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Exports.WithLabelValues("png", "success")), 0)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CountImport(1, 1)
		m.CountExport("vcf", "fallback")
		m.ObserveQuery("get", time.Now())
	})
}
