package otel

import (
	"context"
	"sync"
	"testing"

	goStats "github.com/MrEthical07/goStats"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goStats.MetricsSnapshot
	missed   uint64
	failed   bool
}

func (f *fakeSource) MetricsSnapshot() goStats.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goStats.MetricsSnapshot{
		Counters:   make(map[goStats.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goStats.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) Missed() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.missed
}

func (f *fakeSource) Failed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.failed
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gostats-test")

	src := &fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters: map[goStats.MetricID]uint64{
				goStats.MetricRecordAccepted: 3,
			},
			Histograms: map[goStats.MetricID][]uint64{
				goStats.MetricStatLoggerLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		missed: 1,
		failed: true,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gostats-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gostats-test")

	src := &fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters: map[goStats.MetricID]uint64{
				goStats.MetricRecordAccepted: 1,
			},
			Histograms: map[goStats.MetricID][]uint64{
				goStats.MetricStatLoggerLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goStats.MetricRecordAccepted] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}

func TestExporterObservesMissedAndFailed(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gostats-test")

	src := &fakeSource{
		snapshot: goStats.MetricsSnapshot{
			Counters:   map[goStats.MetricID]uint64{},
			Histograms: map[goStats.MetricID][]uint64{},
		},
		missed: 5,
		failed: true,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() { _ = exp.Close() }()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			gauge, ok := m.Data.(metricdata.Gauge[int64])
			if !ok || len(gauge.DataPoints) == 0 {
				continue
			}
			got[m.Name] = gauge.DataPoints[0].Value
		}
	}
	if got["gostats_missed_pending"] != 5 {
		t.Fatalf("expected missed gauge 5, got %d", got["gostats_missed_pending"])
	}
	if got["gostats_dispatcher_failed"] != 1 {
		t.Fatalf("expected failed gauge 1, got %d", got["gostats_dispatcher_failed"])
	}
}
