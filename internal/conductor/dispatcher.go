package conductor

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goStats/internal/metrics"
	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
)

// dispatcher is the single consumer of the ring.
type dispatcher struct {
	ring       *ring
	scheduler  *scheduler
	statLogger stat.Logger
	log        *logiface.Logger[logiface.Event]
	metrics    *metrics.Metrics
	missed     *atomic.Uint64

	// trackers is only touched by the dispatcher goroutine.
	trackers map[int]stat.Tracker

	// take is ring.take outside of tests.
	take func(done <-chan struct{}) (*slot, error)

	done    <-chan struct{}
	stopped chan struct{}
	failed  atomic.Bool
}

func newDispatcher(r *ring, sched *scheduler, statLogger stat.Logger, log *logiface.Logger[logiface.Event], m *metrics.Metrics, missed *atomic.Uint64, done <-chan struct{}) *dispatcher {
	return &dispatcher{
		ring:       r,
		scheduler:  sched,
		statLogger: statLogger,
		log:        log,
		metrics:    m,
		missed:     missed,
		trackers:   make(map[int]stat.Tracker),
		take:       r.take,
		done:       done,
		stopped:    make(chan struct{}),
	}
}

func (d *dispatcher) run() {
	defer close(d.stopped)
	defer func() {
		if r := recover(); r != nil {
			d.failed.Store(true)
			d.log.Crit().
				Any("panic", r).
				Uint64("outstanding", d.ring.outstanding()).
				Log("conductor dispatcher stopped; events will no longer be processed")
		}
	}()

	for {
		s, err := d.take(d.done)
		if err != nil {
			d.drain()
			return
		}
		d.process(s)
	}
}

// drain processes every slot that is already committed, then returns.
func (d *dispatcher) drain() {
	for {
		s := d.ring.tryTake()
		if s == nil {
			return
		}
		d.process(s)
	}
}

// process handles one slot. Failures are isolated to the slot, which is
// always released.
func (d *dispatcher) process(s *slot) {
	defer d.ring.release(s)
	defer func() {
		if r := recover(); r != nil {
			d.metrics.Inc(metrics.EventFailed)
			d.eventLog(d.log.Err().Limit(), s).
				Any("panic", r).
				Log("event handling failed")
		}
	}()

	if err := d.handle(s); err != nil {
		d.metrics.Inc(metrics.EventFailed)
		d.eventLog(d.log.Err().Limit(), s).
			Err(err).
			Log("event handling failed")
	}
}

func (d *dispatcher) handle(s *slot) error {
	switch s.kind {
	case KindAddTracker:
		d.addTracker(s)
		return nil

	case KindRecord:
		tracker, ok := d.trackers[s.id.UID()]
		if !ok {
			d.metrics.Inc(metrics.RecordUnknownTracker)
			return nil
		}
		tracker.Record(s)
		return nil

	case KindLog:
		return d.logTracker(s, false)

	case KindLogAndReset:
		return d.logTracker(s, true)

	case KindReset:
		if tracker, ok := d.trackers[s.id.UID()]; ok {
			tracker.Reset()
		}
		return nil

	default:
		return fmt.Errorf("%w: %d", ErrUnknownEventKind, s.kind)
	}
}

func (d *dispatcher) addTracker(s *slot) {
	uid := s.id.UID()
	if _, exists := d.trackers[uid]; exists {
		d.metrics.Inc(metrics.TrackerDuplicate)
		d.log.Warning().
			Int("uid", uid).
			Str("tracker", s.id.Display()).
			Log("duplicate tracker registration ignored")
		return
	}

	d.trackers[uid] = s.tracker
	d.metrics.Inc(metrics.TrackerRegistered)
	d.scheduler.add(s.id, s.logInterval, s.resetInterval)
}

func (d *dispatcher) logTracker(s *slot, reset bool) error {
	if n := d.missed.Swap(0); n > 0 {
		d.log.Warning().
			Uint64("missed", n).
			Log("records dropped because the event ring was saturated")
	}

	tracker, ok := d.trackers[s.id.UID()]
	if !ok {
		return nil
	}

	var err error
	if d.statLogger != nil {
		start := time.Now()
		err = d.statLogger.Log(s.id, tracker, s.timestamp)
		d.metrics.Observe(metrics.StatLoggerLatency, time.Since(start))
		if err != nil {
			d.metrics.Inc(metrics.StatLoggerFailed)
			err = fmt.Errorf("stat logger: %w", err)
		}
	}

	if reset {
		tracker.Reset()
		d.metrics.Inc(metrics.LogAndResetDispatched)
	} else {
		d.metrics.Inc(metrics.LogDispatched)
	}
	return err
}

func (d *dispatcher) eventLog(b *logiface.Builder[logiface.Event], s *slot) *logiface.Builder[logiface.Event] {
	b = b.Str("kind", s.kind.String()).Uint64("seq", s.seq)
	if s.id != nil {
		b = b.Int("uid", s.id.UID()).Str("tracker", s.id.Display())
	}
	return b
}
