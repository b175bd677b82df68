package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID enumerates conductor self-metrics.
type MetricID uint16

const (
	RecordAccepted MetricID = iota
	RecordDropped
	RecordUnknownTracker
	TrackerRegistered
	TrackerDuplicate
	LogDispatched
	LogAndResetDispatched
	ResetRequested
	EventFailed
	StatLoggerFailed
	StatLoggerLatency
	ClaimWait
	MetricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

// Config controls which metrics are collected.
type Config struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

type histogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds counters and histograms indexed by MetricID. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [MetricIDCount]paddedCounter
	histograms    [MetricIDCount]histogram
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New allocates a Metrics according to cfg.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	m.Add(id, 1)
}

// Add increments a counter by n.
func (m *Metrics) Add(id MetricID, n uint64) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, n)
}

// Observe records d into the histogram for id. Only histogram metrics accept
// observations.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || !IsHistogram(id) {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters, and histograms when latency is enabled.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := Snapshot{
		Counters:   make(map[MetricID]uint64, int(MetricIDCount)),
		Histograms: make(map[MetricID][]uint64, 2),
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if IsHistogram(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range [...]MetricID{StatLoggerLatency, ClaimWait} {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

// IsHistogram reports whether id is a latency histogram rather than a counter.
func IsHistogram(id MetricID) bool {
	return id == StatLoggerLatency || id == ClaimWait
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
