package metrics_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/talent-api/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Manager) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestManagerRecords(t *testing.T) {
	m := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))

	m.IncBuild("Mage", metrics.ResultLive)
	m.IncBuild("Mage", metrics.ResultLive)
	m.IncFallback("Mage", "fetch_failed")
	m.AddUnresolved(3)
	m.AddUnresolved(-1)
	m.ObserveFetch("http", 250*time.Millisecond, nil)
	m.ObserveFetch("http", time.Second, fmt.Errorf("boom"))

	body := scrape(t, m)
	assert.Contains(t, body, `talents_builds_total{class="Mage",result="live"} 2`)
	assert.Contains(t, body, `talents_fallbacks_total{class="Mage",reason="fetch_failed"} 1`)
	assert.Contains(t, body, `talents_unresolved_tokens_total 3`)
	assert.Contains(t, body, `talents_fetch_duration_seconds_count{source="http"} 2`)
	assert.Contains(t, body, `talents_fetch_errors_total{source="http"} 1`)
}

func TestManagerNamespace(t *testing.T) {
	m := metrics.NewManager(
		metrics.WithRegistry(prometheus.NewRegistry()),
		metrics.WithNamespace("calc"),
		metrics.WithFetchBuckets([]float64{0.1, 1}),
	)
	m.IncBuild("Warrior", metrics.ResultStatic)

	body := scrape(t, m)
	assert.Contains(t, body, `calc_builds_total{class="Warrior",result="static"} 1`)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r metrics.Recorder = metrics.Nop{}
	r.IncBuild("Mage", metrics.ResultError)
	r.AddUnresolved(1)
}
