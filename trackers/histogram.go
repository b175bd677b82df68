package trackers

import (
	"strconv"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/MrEthical07/goStats/stat"
)

// DefaultPercentiles are reported by NewHistogram.
var DefaultPercentiles = []float64{0, 50, 90, 99, 99.9, 100}

// HistogramConfig bounds the recordable range. Values outside
// [Lowest, Highest] are clamped.
type HistogramConfig struct {
	Lowest      int64
	Highest     int64
	SigFigs     int
	Percentiles []float64
}

// DefaultHistogramConfig covers one nanosecond to one hour at three
// significant digits.
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		Lowest:      1,
		Highest:     3_600_000_000_000,
		SigFigs:     3,
		Percentiles: DefaultPercentiles,
	}
}

// Histogram records long values in an HDR histogram and reports configured
// percentiles plus "count". Percentile 0 reports the minimum and 100 the
// maximum. With nothing recorded every statistic is 0.
type Histogram struct {
	h           *hdrhistogram.Histogram
	lowest      int64
	highest     int64
	percentiles []float64
	names       []string
}

// NewHistogram returns a Histogram with DefaultHistogramConfig.
func NewHistogram() *Histogram {
	return NewHistogramWithConfig(DefaultHistogramConfig())
}

// NewHistogramWithConfig returns a Histogram; zero fields take defaults.
func NewHistogramWithConfig(cfg HistogramConfig) *Histogram {
	def := DefaultHistogramConfig()
	if cfg.Lowest <= 0 {
		cfg.Lowest = def.Lowest
	}
	if cfg.Highest < 2*cfg.Lowest {
		cfg.Highest = def.Highest
	}
	if cfg.SigFigs < 1 || cfg.SigFigs > 5 {
		cfg.SigFigs = def.SigFigs
	}
	if len(cfg.Percentiles) == 0 {
		cfg.Percentiles = def.Percentiles
	}

	names := make([]string, len(cfg.Percentiles))
	for i, p := range cfg.Percentiles {
		names[i] = percentileName(p)
	}
	return &Histogram{
		h:           hdrhistogram.New(cfg.Lowest, cfg.Highest, cfg.SigFigs),
		lowest:      cfg.Lowest,
		highest:     cfg.Highest,
		percentiles: append([]float64(nil), cfg.Percentiles...),
		names:       names,
	}
}

// percentileName renders 50 as "50" and 99.9 as "99.9".
func percentileName(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	return strings.TrimSuffix(s, ".0")
}

func (t *Histogram) Record(r stat.Record) {
	v := r.ValueLong()
	switch {
	case v < 0:
		v = 0
	case v > t.highest:
		v = t.highest
	}
	_ = t.h.RecordValue(v)
}

func (t *Histogram) Reset() { t.h.Reset() }

func (t *Histogram) Snapshot() []stat.Value {
	count := t.h.TotalCount()
	out := make([]stat.Value, 0, len(t.percentiles)+1)
	for i, p := range t.percentiles {
		var v int64
		if count > 0 {
			switch p {
			case 0:
				v = t.h.Min()
			case 100:
				v = t.h.Max()
			default:
				v = t.h.ValueAtQuantile(p)
			}
		}
		out = append(out, stat.LongValue(t.names[i], v))
	}
	return append(out, stat.LongValue("count", count))
}

// TotalCount returns the number of recorded values since the last reset.
func (t *Histogram) TotalCount() int64 { return t.h.TotalCount() }
