package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Started("a", 12)
	m.Cycle("a", time.Millisecond, false)
	m.Cycle("a", 3*time.Millisecond, true)
	out := scrape(t, reg)
	assert.Contains(t, out, "rtnet_net_running 1")
	assert.Contains(t, out, `rtnet_net_primitives{net="a"} 12`)
	assert.Contains(t, out, `rtnet_net_cycles_total{net="a"} 2`)
	assert.Contains(t, out, `rtnet_net_overruns_total{net="a"} 1`)
	assert.Contains(t, out, `rtnet_net_cycle_duration_seconds_count{net="a"} 2`)

	m.Finished("a", "stopped")
	out = scrape(t, reg)
	assert.Contains(t, out, "rtnet_net_running 0")
	assert.Contains(t, out, `rtnet_net_finished_total{outcome="stopped"} 1`)
	assert.NotContains(t, out, `rtnet_net_primitives{net="a"}`)

	_, err = New(reg)
	require.Error(t, err, "registering twice must fail")
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Started("a", 1)
		m.Cycle("a", time.Millisecond, true)
		m.Finished("a", "error")
	})
}
