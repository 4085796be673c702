package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCollector struct {
	desc *prometheus.Desc
}

func (c countingCollector) Describe(ch chan<- *prometheus.Desc) { ch <- c.desc }

func (c countingCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, 7)
}

func TestMetricsServer_ServesRegisteredCollectors(t *testing.T) {
	t.Parallel()

	extra := countingCollector{desc: prometheus.NewDesc("clubledger_test_gauge", "test gauge", nil, nil)}
	server, err := NewMetricsServer(":0", extra)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "clubledger_test_gauge 7")
	assert.Contains(t, recorder.Body.String(), "go_goroutines")

	health := httptest.NewRecorder()
	server.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestPoolCollector_Describe(t *testing.T) {
	t.Parallel()

	ch := make(chan *prometheus.Desc, 10)
	NewPoolCollector(nil).Describe(ch)
	close(ch)

	names := []string{}
	for d := range ch {
		names = append(names, d.String())
	}

	assert.Len(t, names, 7)
	assert.Contains(t, strings.Join(names, " "), "clubledger_db_pool_acquired_connections")
	assert.Contains(t, strings.Join(names, " "), "clubledger_db_pool_acquires_total")
}
