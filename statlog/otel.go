package statlog

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelGaugeName is the instrument every numeric statistic is recorded on.
const OTelGaugeName = "gostats.value"

// OTel records numeric statistics on a synchronous Float64Gauge with
// "tracker", "stat" and "logger" attributes. The MeterProvider is owned by
// the caller.
type OTel struct {
	gauge metric.Float64Gauge
	name  string
}

// NewOTel creates the gauge on meter.
func NewOTel(meter metric.Meter, name string) (*OTel, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	g, err := meter.Float64Gauge(OTelGaugeName, metric.WithDescription("Last logged tracker statistic."))
	if err != nil {
		return nil, fmt.Errorf("create gauge %s: %w", OTelGaugeName, err)
	}
	return &OTel{gauge: g, name: name}, nil
}

func (o *OTel) Log(id stat.ID, tracker stat.Tracker, _ time.Time) error {
	ctx := context.Background()
	display := id.Display()
	for _, v := range tracker.Snapshot() {
		n, ok := v.Numeric()
		if !ok {
			continue
		}
		o.gauge.Record(ctx, n, metric.WithAttributes(
			attribute.String("tracker", display),
			attribute.String("stat", v.Name),
			attribute.String("logger", o.name),
		))
	}
	return nil
}

func (o *OTel) Close() error { return nil }
