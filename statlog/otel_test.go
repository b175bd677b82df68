package statlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOTelRecordsNumericGauges(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	o, err := NewOTel(provider.Meter("gostats-test"), "main")
	require.NoError(t, err)
	require.NoError(t, o.Log(testID, testSnap, testTime))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	got := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != OTelGaugeName {
				continue
			}
			gauge, ok := m.Data.(metricdata.Gauge[float64])
			require.True(t, ok)
			for _, dp := range gauge.DataPoints {
				name, _ := dp.Attributes.Value(attribute.Key("stat"))
				tracker, _ := dp.Attributes.Value(attribute.Key("tracker"))
				assert.Equal(t, "latency", tracker.AsString())
				got[name.AsString()] = dp.Value
			}
		}
	}
	assert.Equal(t, map[string]float64{"sum": 10, "mean": 2.5}, got)
}

func TestNewOTelRequiresMeter(t *testing.T) {
	_, err := NewOTel(nil, "")
	assert.ErrorIs(t, err, ErrNilMeter)
}
