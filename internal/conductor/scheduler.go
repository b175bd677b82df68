package conductor

import (
	"sync"
	"time"

	"github.com/MrEthical07/goStats/internal/metrics"
	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
)

// neverTime stands in for an interval's "never" so it loses every minimum.
var neverTime = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

type schedule struct {
	id            stat.ID
	logInterval   stat.Interval
	resetInterval stat.Interval
	nextLog       time.Time
	nextReset     time.Time
}

type emitFunc func(kind Kind, id stat.ID, scheduled time.Time) error

// scheduler injects Log and LogAndReset events into the ring.
type scheduler struct {
	ring    *ring
	clock   Clock
	maxIdle time.Duration
	log     *logiface.Logger[logiface.Event]
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending []schedule
	wake    chan struct{}

	// schedules is owned by the scheduler goroutine.
	schedules []schedule

	done    <-chan struct{}
	stopped chan struct{}
}

func newScheduler(r *ring, clock Clock, maxIdle time.Duration, log *logiface.Logger[logiface.Event], m *metrics.Metrics, done <-chan struct{}) *scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &scheduler{
		ring:    r,
		clock:   clock,
		maxIdle: maxIdle,
		log:     log,
		metrics: m,
		wake:    make(chan struct{}, 1),
		done:    done,
		stopped: make(chan struct{}),
	}
}

// add queues a registration and wakes the scheduler. Called by the dispatcher.
func (s *scheduler) add(id stat.ID, logInterval, resetInterval stat.Interval) {
	s.mu.Lock()
	s.pending = append(s.pending, schedule{
		id:            id,
		logInterval:   logInterval,
		resetInterval: resetInterval,
	})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) run() {
	defer close(s.stopped)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		now := s.clock.Now()
		s.adopt(now)

		nearest, err := s.tick(now, s.emit)
		if err != nil {
			return
		}

		wait := nearest.Sub(s.clock.Now())
		if wait <= 0 {
			continue
		}

		timer := s.clock.NewTimer(wait)
		select {
		case <-timer.C():
		case <-s.wake:
			timer.Stop()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

// adopt moves pending registrations into the owned schedule list.
func (s *scheduler) adopt(now time.Time) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, p := range pending {
		p.nextLog = first(p.logInterval, now)
		p.nextReset = first(p.resetInterval, now)
		s.schedules = append(s.schedules, p)
		s.log.Debug().
			Int("uid", p.id.UID()).
			Str("tracker", p.id.Display()).
			Time("next_log", p.nextLog).
			Log("tracker scheduled")
	}
}

// tick emits every due event and returns the time of the next wake.
func (s *scheduler) tick(now time.Time, emit emitFunc) (time.Time, error) {
	nearest := now.Add(s.maxIdle)

	for i := range s.schedules {
		sc := &s.schedules[i]
		if !sc.nextLog.After(now) {
			kind := KindLog
			if !sc.nextReset.After(now) {
				kind = KindLogAndReset
				sc.nextReset = next(sc.resetInterval, sc.nextReset)
			}
			if err := emit(kind, sc.id, sc.nextLog); err != nil {
				return nearest, err
			}
			sc.nextLog = next(sc.logInterval, sc.nextLog)
		}
		if sc.nextLog.Before(nearest) {
			nearest = sc.nextLog
		}
	}

	return nearest, nil
}

func (s *scheduler) emit(kind Kind, id stat.ID, scheduled time.Time) error {
	start := time.Now()
	sl, err := s.ring.claim(s.done)
	if err != nil {
		return err
	}
	s.metrics.Observe(metrics.ClaimWait, time.Since(start))

	sl.setControl(kind, id, scheduled)
	s.ring.commit(sl)
	return nil
}

func first(iv stat.Interval, now time.Time) time.Time {
	if iv == nil {
		return neverTime
	}
	t, ok := iv.First(now)
	if !ok {
		return neverTime
	}
	return t
}

func next(iv stat.Interval, t time.Time) time.Time {
	if iv == nil || !t.Before(neverTime) {
		return neverTime
	}
	n, ok := iv.Next(t)
	if !ok || !n.After(t) {
		return neverTime
	}
	return n
}
