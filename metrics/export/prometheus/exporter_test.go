package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goStats "github.com/MrEthical07/goStats"
)

type fakeSource struct {
	snapshot goStats.MetricsSnapshot
	missed   uint64
	failed   bool
}

func (f fakeSource) MetricsSnapshot() goStats.MetricsSnapshot { return f.snapshot }
func (f fakeSource) Missed() uint64                           { return f.missed }
func (f fakeSource) Failed() bool                             { return f.failed }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters:   map[goStats.MetricID]uint64{},
			Histograms: map[goStats.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters: map[goStats.MetricID]uint64{
				goStats.MetricRecordAccepted: 7,
			},
			Histograms: map[goStats.MetricID][]uint64{
				goStats.MetricStatLoggerLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		missed: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "gostats_record_accepted_total 7") {
		t.Fatalf("expected record_accepted counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostats_stat_logger_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostats_stat_logger_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if strings.Contains(out, "gostats_claim_wait_seconds") {
		t.Fatalf("histograms absent from the snapshot must not render, got:\n%s", out)
	}
	if !strings.Contains(out, "gostats_missed_pending 2") {
		t.Fatalf("expected missed gauge in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostats_dispatcher_failed 0") {
		t.Fatalf("expected failed gauge in output, got:\n%s", out)
	}
}

func TestRenderFailedWithoutMetrics(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{failed: true})
	if out := exp.Render(); !strings.Contains(out, "gostats_dispatcher_failed 1") {
		t.Fatalf("expected failed gauge, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters:   map[goStats.MetricID]uint64{goStats.MetricRecordAccepted: 1},
			Histograms: map[goStats.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters: map[goStats.MetricID]uint64{
				goStats.MetricRecordAccepted:    100000,
				goStats.MetricRecordDropped:     40,
				goStats.MetricLogDispatched:     800,
				goStats.MetricTrackerRegistered: 12,
			},
			Histograms: map[goStats.MetricID][]uint64{
				goStats.MetricStatLoggerLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
