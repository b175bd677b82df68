package goStats

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MrEthical07/goStats/internal/conductor"
	"github.com/joeycumines/logiface"
)

const (
	// ConductorDefault is the ring-buffer conductor.
	ConductorDefault = "default"
	// ConductorDisabled accepts every call and does nothing.
	ConductorDisabled = "disabled"
)

// Conductor moves registrations, observations and resets from producers to
// trackers. Engine validates input and delegates to a Conductor.
type Conductor interface {
	AddTracker(id TrackerID, tracker Tracker, logInterval, resetInterval Interval) error
	Record(id TrackerID, keyLong int64, keyDouble float64, keyObject any, valueLong int64, valueDouble float64, valueObject any)
	Reset(id TrackerID) error
	// Missed returns observations dropped and not yet reported.
	Missed() uint64
	// Failed reports whether dispatching stopped on an unrecoverable error.
	Failed() bool
	// Close stops the conductor and closes its stat logger.
	Close() error
}

// ConductorDeps are the collaborators handed to a ConductorFactory.
type ConductorDeps struct {
	StatLogger StatLogger
	Log        *logiface.Logger[logiface.Event]
	Metrics    *Metrics
	Clock      Clock
}

// ConductorFactory builds a Conductor. It owns deps.StatLogger from the
// moment it returns successfully.
type ConductorFactory func(cfg ConductorConfig, deps ConductorDeps) (Conductor, error)

var (
	conductorsMu sync.RWMutex
	conductors   = map[string]ConductorFactory{
		ConductorDefault:  newRingConductor,
		ConductorDisabled: newDisabledConductor,
	}
)

// RegisterConductor adds or replaces a named factory. A nil factory removes
// the name.
func RegisterConductor(name string, f ConductorFactory) {
	conductorsMu.Lock()
	defer conductorsMu.Unlock()
	if f == nil {
		delete(conductors, name)
		return
	}
	conductors[name] = f
}

// ConductorNames lists registered conductor names in sorted order.
func ConductorNames() []string {
	conductorsMu.RLock()
	defer conductorsMu.RUnlock()
	out := make([]string, 0, len(conductors))
	for name := range conductors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func openConductor(cfg ConductorConfig, deps ConductorDeps) (Conductor, error) {
	conductorsMu.RLock()
	f, ok := conductors[cfg.Impl]
	conductorsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConductor, cfg.Impl)
	}
	return f(cfg, deps)
}

func newRingConductor(cfg ConductorConfig, deps ConductorDeps) (Conductor, error) {
	c, err := conductor.New(
		conductor.Config{RingSize: cfg.RingSize, MaxIdle: cfg.MaxIdle},
		conductor.Deps{StatLogger: deps.StatLogger, Log: deps.Log, Metrics: deps.Metrics, Clock: deps.Clock},
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// disabledConductor drops everything. Close still closes the stat logger so
// ownership is the same as for the ring conductor.
type disabledConductor struct {
	statLogger StatLogger
	closeOnce  sync.Once
	closeErr   error
}

func newDisabledConductor(_ ConductorConfig, deps ConductorDeps) (Conductor, error) {
	deps.Log.Info().Log("stats disabled")
	return &disabledConductor{statLogger: deps.StatLogger}, nil
}

func (*disabledConductor) AddTracker(TrackerID, Tracker, Interval, Interval) error    { return nil }
func (*disabledConductor) Record(TrackerID, int64, float64, any, int64, float64, any) {}
func (*disabledConductor) Reset(TrackerID) error                                      { return nil }
func (*disabledConductor) Missed() uint64                                             { return 0 }
func (*disabledConductor) Failed() bool                                               { return false }

func (d *disabledConductor) Close() error {
	d.closeOnce.Do(func() {
		if d.statLogger != nil {
			d.closeErr = d.statLogger.Close()
		}
	})
	return d.closeErr
}
