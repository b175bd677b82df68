package statlog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrEthical07/goStats/stat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRenderEmptyBeforeFirstLog(t *testing.T) {
	assert.Equal(t, "", NewPrometheus(PrometheusConfig{}).Render())
}

func TestPrometheusRendersLastValues(t *testing.T) {
	p := NewPrometheus(PrometheusConfig{Namespace: "svc-stats"})
	require.NoError(t, p.Log(testID, testSnap, testTime))
	require.NoError(t, p.Log(stat.NewID(2, "cpu"), fixedTracker{stat.LongValue("value", 3)}, testTime))

	out := p.Render()
	assert.Contains(t, out, "# TYPE svc_stats_value gauge\n")
	assert.Contains(t, out, `svc_stats_value{tracker="latency",stat="sum"} 10`)
	assert.Contains(t, out, `svc_stats_value{tracker="latency",stat="mean"} 2.5`)
	assert.NotContains(t, out, `stat="last"`)
	assert.NotContains(t, out, `stat="state"`)
	assert.Contains(t, out, `svc_stats_logged_timestamp_seconds{tracker="latency"} 1767225605`)
	assert.Less(t, strings.Index(out, `tracker="cpu"`), strings.Index(out, `tracker="latency"`))
}

func TestPrometheusNullDropsPreviousSample(t *testing.T) {
	p := NewPrometheus(PrometheusConfig{})
	id := stat.NewID(1, "q")
	require.NoError(t, p.Log(id, fixedTracker{stat.DoubleValue("avg", 1)}, testTime))
	require.NoError(t, p.Log(id, fixedTracker{stat.NullValue("avg", stat.TypeDouble)}, testTime))
	assert.NotContains(t, p.Render(), `stat="avg"`)
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus(PrometheusConfig{})
	require.NoError(t, p.Log(testID, testSnap, testTime))

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "gostats_value")
}
