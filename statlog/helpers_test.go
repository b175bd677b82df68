package statlog

import (
	"time"

	"github.com/MrEthical07/goStats/stat"
)

type fixedTracker []stat.Value

func (fixedTracker) Record(stat.Record)       {}
func (fixedTracker) Reset()                   {}
func (f fixedTracker) Snapshot() []stat.Value { return f }

var (
	testID   = stat.NewID(7, "latency")
	testTime = time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC)
	testSnap = fixedTracker{
		stat.LongValue("sum", 10),
		stat.DoubleValue("mean", 2.5),
		stat.NullValue("last", stat.TypeLong),
		stat.ObjectValue("state", "ok"),
	}
)

type failingLogger struct {
	err    error
	closed int
}

func (f *failingLogger) Log(stat.ID, stat.Tracker, time.Time) error { return f.err }
func (f *failingLogger) Close() error {
	f.closed++
	return f.err
}
