package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() goStats.MetricsSnapshot
	Missed() uint64
	Failed() bool
}

// PrometheusExporter renders conductor self-metrics in Prometheus text
// exposition format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates a Prometheus exporter that reads from the given [goStats.Engine].
func NewPrometheusExporter(engine *goStats.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates a Prometheus exporter from any
// value exposing MetricsSnapshot, Missed and Failed.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current metrics in Prometheus text exposition format. It
// returns an empty string when metrics are disabled and nothing was missed.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	missed := p.source.Missed()
	failed := p.source.Failed()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && missed == 0 && !failed {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range internaldefs.CounterDefs {
		writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
	}

	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		writeHistogram(&b, def.Name, def.Help, cumulative)
	}

	writeGauge(&b, "gostats_missed_pending", "Dropped observations not yet reported by a log event.", missed)
	var failedValue uint64
	if failed {
		failedValue = 1
	}
	writeGauge(&b, "gostats_dispatcher_failed", "1 when the dispatcher stopped on an unrecoverable error.", failedValue)

	return b.String()
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	writeHeader(b, name, help, "counter")
	writeSample(b, name, value)
}

func writeGauge(b *strings.Builder, name, help string, value uint64) {
	writeHeader(b, name, help, "gauge")
	writeSample(b, name, value)
}

func writeSample(b *strings.Builder, name string, value uint64) {
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func writeHistogram(b *strings.Builder, name, help string, cumulative [8]uint64) {
	writeHeader(b, name, help, "histogram")

	for i, le := range internaldefs.HistogramBounds {
		b.WriteString(name)
		b.WriteString("_bucket{le=\"")
		b.WriteString(le)
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}

	writeSample(b, name+"_count", cumulative[len(cumulative)-1])

	// Bucketed snapshots carry no sum.
	b.WriteString(name)
	b.WriteString("_sum 0\n")
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
