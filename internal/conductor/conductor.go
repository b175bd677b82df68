package conductor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goStats/internal/metrics"
	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
)

// DefaultMaxIdle bounds the scheduler sleep when no tracker is due.
const DefaultMaxIdle = 24 * time.Hour

// Config sizes the ring and the scheduler idle bound.
type Config struct {
	RingSize int
	MaxIdle  time.Duration
}

// Deps are the collaborators a Conductor drives.
type Deps struct {
	StatLogger stat.Logger
	Log        *logiface.Logger[logiface.Event]
	Metrics    *metrics.Metrics
	Clock      Clock
}

// Conductor owns the ring, the dispatcher, and the scheduler.
type Conductor struct {
	ring       *ring
	dispatcher *dispatcher
	scheduler  *scheduler
	statLogger stat.Logger
	log        *logiface.Logger[logiface.Event]
	metrics    *metrics.Metrics

	missed atomic.Uint64

	closing   chan struct{}
	stop      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New validates cfg, builds the ring, and starts the dispatcher and scheduler
// goroutines.
func New(cfg Config, deps Deps) (*Conductor, error) {
	r, err := newRing(cfg.RingSize)
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = DefaultMaxIdle
	}

	c := &Conductor{
		ring:       r,
		statLogger: deps.StatLogger,
		log:        deps.Log,
		metrics:    deps.Metrics,
		closing:    make(chan struct{}),
		stop:       make(chan struct{}),
	}
	c.scheduler = newScheduler(r, deps.Clock, cfg.MaxIdle, deps.Log, deps.Metrics, c.closing)
	c.dispatcher = newDispatcher(r, c.scheduler, deps.StatLogger, deps.Log, deps.Metrics, &c.missed, c.stop)

	go c.dispatcher.run()
	go c.scheduler.run()

	c.log.Info().
		Int("ring_size", r.capacity()).
		Dur("max_idle", cfg.MaxIdle).
		Log("conductor started")

	return c, nil
}

// AddTracker enqueues a registration. It blocks until a slot is free and only
// fails once the conductor is closing.
func (c *Conductor) AddTracker(id stat.ID, tracker stat.Tracker, logInterval, resetInterval stat.Interval) error {
	if c.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	s, err := c.ring.claim(c.closing)
	if err != nil {
		return err
	}
	c.metrics.Observe(metrics.ClaimWait, time.Since(start))

	s.setAddTracker(id, tracker, logInterval, resetInterval)
	c.ring.commit(s)
	return nil
}

// Record enqueues an observation without blocking. When the ring is saturated
// the observation is dropped and counted as missed.
func (c *Conductor) Record(id stat.ID, keyLong int64, keyDouble float64, keyObject any, valueLong int64, valueDouble float64, valueObject any) {
	if id == nil || c.closed.Load() {
		return
	}

	s := c.ring.tryClaim()
	if s == nil {
		c.missed.Add(1)
		c.metrics.Inc(metrics.RecordDropped)
		return
	}

	s.setRecord(id, keyLong, keyDouble, keyObject, valueLong, valueDouble, valueObject)
	c.ring.commit(s)
	c.metrics.Inc(metrics.RecordAccepted)
}

// Reset enqueues an on-demand reset. It blocks until a slot is free and only
// fails once the conductor is closing.
func (c *Conductor) Reset(id stat.ID) error {
	if c.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	s, err := c.ring.claim(c.closing)
	if err != nil {
		return err
	}
	c.metrics.Observe(metrics.ClaimWait, time.Since(start))

	s.setControl(KindReset, id, time.Time{})
	c.ring.commit(s)
	c.metrics.Inc(metrics.ResetRequested)
	return nil
}

// Missed returns observations dropped since the last Log event reported them.
func (c *Conductor) Missed() uint64 {
	return c.missed.Load()
}

// Failed reports whether the dispatcher stopped on an unrecoverable error.
func (c *Conductor) Failed() bool {
	return c.dispatcher.failed.Load()
}

// Close stops the scheduler, drains committed events, stops the dispatcher,
// and closes the stat logger. It is safe to call more than once.
func (c *Conductor) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closing)
		<-c.scheduler.stopped

		close(c.stop)
		<-c.dispatcher.stopped

		if c.statLogger != nil {
			c.closeErr = c.statLogger.Close()
		}
		c.log.Info().
			Uint64("missed", c.missed.Load()).
			Log("conductor closed")
	})
	return c.closeErr
}
