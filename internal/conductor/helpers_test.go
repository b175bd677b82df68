package conductor

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
}

// countingTracker sums ValueLong and counts records and resets.
type countingTracker struct {
	mu      sync.Mutex
	sum     int64
	records int
	resets  int
	values  []int64
	gate    chan struct{}
	panicOn int64
}

func (t *countingTracker) Record(r stat.Record) {
	if t.gate != nil {
		<-t.gate
	}
	if t.panicOn != 0 && r.ValueLong() == t.panicOn {
		panic("tracker rejected value")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum += r.ValueLong()
	t.records++
	t.values = append(t.values, r.ValueLong())
}

func (t *countingTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum = 0
	t.resets++
}

func (t *countingTracker) Snapshot() []stat.Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return []stat.Value{stat.LongValue("sum", t.sum)}
}

func (t *countingTracker) state() (sum int64, records, resets int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sum, t.records, t.resets
}

type loggedEvent struct {
	id        stat.ID
	snapshot  []stat.Value
	scheduled time.Time
}

type recordingLogger struct {
	mu     sync.Mutex
	events []loggedEvent
	err    error
	closed int
}

func (l *recordingLogger) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, loggedEvent{id: id, snapshot: tracker.Snapshot(), scheduled: scheduled})
	return l.err
}

func (l *recordingLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed++
	return nil
}

func (l *recordingLogger) logged() []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]loggedEvent, len(l.events))
	copy(out, l.events)
	return out
}

// stepInterval fires at anchor + k*period for the smallest k with a time not
// before now.
type stepInterval struct {
	anchor time.Time
	period time.Duration
}

func (s stepInterval) First(now time.Time) (time.Time, bool) {
	t := s.anchor
	for t.Before(now) {
		t = t.Add(s.period)
	}
	return t, true
}

func (s stepInterval) Next(t time.Time) (time.Time, bool) {
	return t.Add(s.period), true
}

type neverInterval struct{}

func (neverInterval) First(time.Time) (time.Time, bool) { return time.Time{}, false }
func (neverInterval) Next(time.Time) (time.Time, bool)  { return time.Time{}, false }

// soonInterval fires on the next multiple of period after now.
type soonInterval struct {
	period time.Duration
}

func (s soonInterval) First(now time.Time) (time.Time, bool) {
	return now.Truncate(s.period).Add(s.period), true
}

func (s soonInterval) Next(t time.Time) (time.Time, bool) {
	return t.Add(s.period), true
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
