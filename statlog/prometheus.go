package statlog

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/goStats/stat"
)

const DefaultPrometheusNamespace = "gostats"

// PrometheusConfig configures the prometheus sink.
type PrometheusConfig struct {
	Namespace string `toml:"namespace"`
}

type promSample struct {
	tracker string
	stat    string
	value   float64
}

// Prometheus keeps the last logged value of every numeric statistic and
// renders them as gauges in text exposition format:
//
//	gostats_value{tracker="latency",stat="p99"} 12
//	gostats_logged_timestamp_seconds{tracker="latency"} 1767225600
//
// Mount Handler on a metrics endpoint; nothing is registered globally.
type Prometheus struct {
	namespace string

	mu      sync.RWMutex
	samples map[string]promSample
	logged  map[string]time.Time
}

// NewPrometheus returns an empty Prometheus sink.
func NewPrometheus(cfg PrometheusConfig) *Prometheus {
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultPrometheusNamespace
	}
	return &Prometheus{
		namespace: sanitizeMetricName(ns),
		samples:   make(map[string]promSample),
		logged:    make(map[string]time.Time),
	}
}

func (p *Prometheus) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	display := id.Display()
	values := tracker.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.logged[display] = scheduled
	for _, v := range values {
		key := display + "\x00" + v.Name
		n, ok := v.Numeric()
		if !ok {
			delete(p.samples, key)
			continue
		}
		p.samples[key] = promSample{tracker: display, stat: v.Name, value: n}
	}
	return nil
}

func (p *Prometheus) Close() error { return nil }

// Handler serves Render.
func (p *Prometheus) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render returns the current gauges, sorted by tracker then stat.
func (p *Prometheus) Render() string {
	p.mu.RLock()
	samples := make([]promSample, 0, len(p.samples))
	for _, s := range p.samples {
		samples = append(samples, s)
	}
	trackers := make([]string, 0, len(p.logged))
	logged := make(map[string]time.Time, len(p.logged))
	for t, ts := range p.logged {
		trackers = append(trackers, t)
		logged[t] = ts
	}
	p.mu.RUnlock()

	if len(trackers) == 0 {
		return ""
	}
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].tracker != samples[j].tracker {
			return samples[i].tracker < samples[j].tracker
		}
		return samples[i].stat < samples[j].stat
	})
	sort.Strings(trackers)

	var b strings.Builder
	b.Grow(64 * (len(samples) + len(trackers)))

	name := p.namespace + "_value"
	writeHeader(&b, name, "Last logged tracker statistic.")
	for _, s := range samples {
		b.WriteString(name)
		b.WriteString(`{tracker="`)
		b.WriteString(escapeLabel(s.tracker))
		b.WriteString(`",stat="`)
		b.WriteString(escapeLabel(s.stat))
		b.WriteString(`"} `)
		b.WriteString(strconv.FormatFloat(s.value, 'g', -1, 64))
		b.WriteByte('\n')
	}

	name = p.namespace + "_logged_timestamp_seconds"
	writeHeader(&b, name, "Scheduled time of the last log per tracker.")
	for _, t := range trackers {
		b.WriteString(name)
		b.WriteString(`{tracker="`)
		b.WriteString(escapeLabel(t))
		b.WriteString(`"} `)
		b.WriteString(strconv.FormatInt(logged[t].Unix(), 10))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeHeader(b *strings.Builder, name, help string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteString("\n# TYPE ")
	b.WriteString(name)
	b.WriteString(" gauge\n")
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

func sanitizeMetricName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, s)
}
