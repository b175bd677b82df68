package conductor

import (
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goStats/internal/metrics"
	"github.com/MrEthical07/goStats/stat"
)

func newTestConductor(t *testing.T, size int, statLogger stat.Logger, buf *syncBuffer) (*Conductor, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(metrics.Config{Enabled: true, EnableLatencyHistograms: true})
	deps := Deps{StatLogger: statLogger, Metrics: m}
	if buf != nil {
		deps.Log = newTestLogger(buf)
	}
	c, err := New(Config{RingSize: size, MaxIdle: time.Hour}, deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

func recordLong(c *Conductor, id stat.ID, v int64) {
	c.Record(id, 0, nan, nil, v, nan, nil)
}

var nan = math.NaN()

func TestConductorRejectsInvalidRingSize(t *testing.T) {
	_, err := New(Config{RingSize: 3}, Deps{})
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestAddTrackerThenRecordIsObserved(t *testing.T) {
	c, _ := newTestConductor(t, 64, &recordingLogger{}, nil)

	for i := 0; i < 50; i++ {
		id := stat.NewID(i, "t")
		tr := &countingTracker{}
		if err := c.AddTracker(id, tr, nil, nil); err != nil {
			t.Fatalf("AddTracker: %v", err)
		}
		recordLong(c, id, 7)
		waitFor(t, time.Second, func() bool {
			_, records, _ := tr.state()
			return records == 1
		})
	}
}

func TestBackpressureDropsAndCountsExactly(t *testing.T) {
	buf := &syncBuffer{}
	logger := &recordingLogger{}
	c, m := newTestConductor(t, 4, logger, buf)

	id := stat.NewID(1, "A")
	gate := make(chan struct{})
	tr := &countingTracker{gate: gate}
	if err := c.AddTracker(id, tr, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	waitFor(t, time.Second, func() bool { return c.ring.outstanding() == 0 })

	var (
		wg       sync.WaitGroup
		attempts atomic.Int32
	)
	for g := 0; g < 3; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for attempts.Add(1) <= 10 {
				recordLong(c, id, 7)
			}
		}()
	}
	wg.Wait()

	if got := c.Missed(); got != 7 {
		t.Fatalf("expected 7 missed records, got %d", got)
	}
	if got := m.Value(metrics.RecordAccepted); got != 3 {
		t.Fatalf("expected 3 accepted records, got %d", got)
	}

	close(gate)
	waitFor(t, time.Second, func() bool {
		sum, records, _ := tr.state()
		return records == 3 && sum == 21
	})

	// A scheduled log reports the drops once and zeroes the counter.
	tr2 := &countingTracker{}
	if err := c.AddTracker(stat.NewID(2, "B"), tr2, soonInterval{period: 5 * time.Millisecond}, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return len(logger.logged()) > 0 })
	if got := c.Missed(); got != 0 {
		t.Fatalf("expected missed counter flushed, got %d", got)
	}
	if !strings.Contains(buf.String(), `"missed":"7"`) && !strings.Contains(buf.String(), `"missed":7`) {
		t.Fatalf("expected aggregate missed warning, got %s", buf.String())
	}
}

func TestScheduledLogsUseScheduledTimestamp(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestConductor(t, 16, logger, nil)

	period := 10 * time.Millisecond
	id := stat.NewID(1, "latency")
	if err := c.AddTracker(id, &countingTracker{}, soonInterval{period: period}, neverInterval{}); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return len(logger.logged()) >= 3 })
	events := logger.logged()
	for i, e := range events {
		if !e.scheduled.Equal(e.scheduled.Truncate(period)) {
			t.Fatalf("event %d: scheduled %v not aligned to %v", i, e.scheduled, period)
		}
		if i > 0 && !e.scheduled.Equal(events[i-1].scheduled.Add(period)) {
			t.Fatalf("event %d: expected consecutive ticks, got %v after %v", i, e.scheduled, events[i-1].scheduled)
		}
	}
}

func TestLogAndResetResetsTracker(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestConductor(t, 16, logger, nil)

	id := stat.NewID(1, "a")
	tr := &countingTracker{}
	every := soonInterval{period: 10 * time.Millisecond}
	if err := c.AddTracker(id, tr, every, every); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	recordLong(c, id, 5)

	// The value is logged once, then cleared by the reset that follows it.
	waitFor(t, 2*time.Second, func() bool {
		events := logger.logged()
		for i, e := range events {
			if e.snapshot[0].Long == 5 {
				return i+1 < len(events) && events[i+1].snapshot[0].Long == 0
			}
		}
		return false
	})
	if _, _, resets := tr.state(); resets == 0 {
		t.Fatal("expected scheduled resets")
	}
}

func TestResetUnknownTrackerIsNoop(t *testing.T) {
	c, m := newTestConductor(t, 8, &recordingLogger{}, nil)

	if err := c.Reset(stat.NewID(99, "missing")); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	waitFor(t, time.Second, func() bool { return c.ring.outstanding() == 0 })
	if got := m.Value(metrics.EventFailed); got != 0 {
		t.Fatalf("expected no failures, got %d", got)
	}
}

func TestOnDemandReset(t *testing.T) {
	c, _ := newTestConductor(t, 8, &recordingLogger{}, nil)
	id := stat.NewID(1, "a")
	tr := &countingTracker{}
	if err := c.AddTracker(id, tr, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	recordLong(c, id, 5)
	if err := c.Reset(id); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	recordLong(c, id, 2)

	waitFor(t, time.Second, func() bool {
		sum, records, resets := tr.state()
		return records == 2 && resets == 1 && sum == 2
	})
}

func TestDuplicateRegistrationKeepsExistingTracker(t *testing.T) {
	buf := &syncBuffer{}
	c, m := newTestConductor(t, 8, &recordingLogger{}, buf)
	id := stat.NewID(1, "a")
	first := &countingTracker{}
	second := &countingTracker{}

	if err := c.AddTracker(id, first, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	if err := c.AddTracker(id, second, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	recordLong(c, id, 3)

	waitFor(t, time.Second, func() bool {
		_, records, _ := first.state()
		return records == 1
	})
	if _, records, _ := second.state(); records != 0 {
		t.Fatalf("duplicate tracker must not receive records, got %d", records)
	}
	if got := m.Value(metrics.TrackerDuplicate); got != 1 {
		t.Fatalf("expected one duplicate, got %d", got)
	}
	if !strings.Contains(buf.String(), "duplicate tracker registration ignored") {
		t.Fatalf("expected duplicate warning, got %s", buf.String())
	}
}

func TestPerEventPanicIsIsolated(t *testing.T) {
	buf := &syncBuffer{}
	c, m := newTestConductor(t, 8, &recordingLogger{}, buf)
	id := stat.NewID(1, "a")
	tr := &countingTracker{panicOn: 13}
	if err := c.AddTracker(id, tr, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}

	recordLong(c, id, 13)
	recordLong(c, id, 4)

	waitFor(t, time.Second, func() bool {
		sum, records, _ := tr.state()
		return records == 1 && sum == 4
	})
	if got := m.Value(metrics.EventFailed); got != 1 {
		t.Fatalf("expected one failed event, got %d", got)
	}
	if c.Failed() {
		t.Fatal("a per-event failure must not stop the dispatcher")
	}
	if !strings.Contains(buf.String(), "event handling failed") {
		t.Fatalf("expected failure log, got %s", buf.String())
	}
}

func TestStatLoggerErrorStillResets(t *testing.T) {
	logger := &recordingLogger{err: errors.New("sink down")}
	c, m := newTestConductor(t, 8, logger, nil)
	id := stat.NewID(1, "a")
	tr := &countingTracker{}
	every := soonInterval{period: 10 * time.Millisecond}
	if err := c.AddTracker(id, tr, every, every); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, _, resets := tr.state()
		return resets >= 1
	})
	if m.Value(metrics.StatLoggerFailed) == 0 {
		t.Fatal("expected stat logger failures to be counted")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if failed, sink := m.Value(metrics.EventFailed), m.Value(metrics.StatLoggerFailed); failed != sink {
		t.Fatalf("stat logger errors must also count as failed events: event_failed=%d stat_logger_failed=%d", failed, sink)
	}
}

func TestSchedulerWakesOnRegistration(t *testing.T) {
	logger := &recordingLogger{}
	c, _ := newTestConductor(t, 8, logger, nil)

	// Let the scheduler settle into its idle sleep first.
	time.Sleep(20 * time.Millisecond)

	if err := c.AddTracker(stat.NewID(1, "a"), &countingTracker{}, soonInterval{period: 5 * time.Millisecond}, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	waitFor(t, time.Second, func() bool { return len(logger.logged()) > 0 })
}

func TestCloseDrainsAndClosesStatLogger(t *testing.T) {
	logger := &recordingLogger{}
	m := metrics.New(metrics.Config{Enabled: true})
	c, err := New(Config{RingSize: 1024}, Deps{StatLogger: logger, Metrics: m})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id := stat.NewID(1, "a")
	tr := &countingTracker{}
	if err := c.AddTracker(id, tr, nil, nil); err != nil {
		t.Fatalf("AddTracker: %v", err)
	}
	for i := 0; i < 500; i++ {
		recordLong(c, id, 1)
	}
	accepted := m.Value(metrics.RecordAccepted)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, records, _ := tr.state(); uint64(records) != accepted {
		t.Fatalf("expected %d drained records, got %d", accepted, records)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if logger.closed != 1 {
		t.Fatalf("expected stat logger closed once, got %d", logger.closed)
	}

	recordLong(c, id, 1)
	if err := c.AddTracker(stat.NewID(2, "b"), tr, nil, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestDispatcherFailureEntersDegradedMode(t *testing.T) {
	buf := &syncBuffer{}
	r, _ := newRing(4)
	done := make(chan struct{})
	defer close(done)

	var missed atomic.Uint64
	sched := newScheduler(r, nil, time.Hour, nil, nil, done)
	d := newDispatcher(r, sched, &recordingLogger{}, newTestLogger(buf), nil, &missed, done)
	d.take = func(<-chan struct{}) (*slot, error) { panic("ring corrupted") }

	go d.run()
	select {
	case <-d.stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
	if !d.failed.Load() {
		t.Fatal("expected degraded mode")
	}
	if !strings.Contains(buf.String(), "conductor dispatcher stopped") {
		t.Fatalf("expected critical log, got %s", buf.String())
	}

	// Administrative events still enqueue but are never drained.
	s, err := r.claim(done)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	r.commit(s)
	if r.outstanding() != 1 {
		t.Fatalf("expected one outstanding event, got %d", r.outstanding())
	}
}
