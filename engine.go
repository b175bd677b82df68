package goStats

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Engine defines a public type used by goStats APIs.
//
// Engine instances are built with [Builder.Build] and are safe for concurrent
// use. Record methods never block; Register and Reset wait for a free ring
// slot.
type Engine struct {
	config     Config
	conductor  Conductor
	log        *logiface.Logger[logiface.Event]
	metrics    *Metrics
	instanceID string
	closed     atomic.Bool
}

var nan = math.NaN()

// Register describes the register operation and its observable behavior.
//
// Register schedules tracker for logging at logInterval and resetting at
// resetInterval; either interval may be nil for never. The registration is
// applied asynchronously and a uid already registered keeps its first
// tracker. Register may return an error when input validation fails or the
// engine is closed.
func (e *Engine) Register(id TrackerID, tracker Tracker, logInterval, resetInterval Interval) error {
	if e == nil || e.closed.Load() {
		return ErrClosed
	}
	if id == nil {
		return ErrNilTrackerID
	}
	if tracker == nil {
		return ErrNilTracker
	}
	if !validDisplayName(id.Display()) {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayName, id.Display())
	}
	return e.conductor.AddTracker(id, tracker, logInterval, resetInterval)
}

// validDisplayName reports whether s matches [0-9A-Za-z_]+.
func validDisplayName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_') {
			return false
		}
	}
	return true
}

// Reset describes the reset operation and its observable behavior.
//
// Reset enqueues an on-demand reset of the tracker registered under id. A uid
// that is not registered is ignored by the dispatcher.
func (e *Engine) Reset(id TrackerID) error {
	if e == nil || e.closed.Load() {
		return ErrClosed
	}
	if id == nil {
		return ErrNilTrackerID
	}
	return e.conductor.Reset(id)
}

func (e *Engine) record(id TrackerID, kl int64, kd float64, ko any, vl int64, vd float64, vo any) {
	if e == nil || id == nil || e.closed.Load() {
		return
	}
	e.conductor.Record(id, kl, kd, ko, vl, vd, vo)
}

// RecordLong records an unkeyed long value.
func (e *Engine) RecordLong(id TrackerID, value int64) {
	e.record(id, 0, nan, nil, value, nan, nil)
}

// RecordDouble records an unkeyed double value.
func (e *Engine) RecordDouble(id TrackerID, value float64) {
	e.record(id, 0, nan, nil, 0, value, nil)
}

// RecordObject records an unkeyed object value.
func (e *Engine) RecordObject(id TrackerID, value any) {
	e.record(id, 0, nan, nil, 0, nan, value)
}

// RecordLongLong records a long value under a long key.
func (e *Engine) RecordLongLong(id TrackerID, key int64, value int64) {
	e.record(id, key, nan, nil, value, nan, nil)
}

// RecordLongDouble records a double value under a long key.
func (e *Engine) RecordLongDouble(id TrackerID, key int64, value float64) {
	e.record(id, key, nan, nil, 0, value, nil)
}

// RecordLongObject records an object value under a long key.
func (e *Engine) RecordLongObject(id TrackerID, key int64, value any) {
	e.record(id, key, nan, nil, 0, nan, value)
}

// RecordDoubleLong records a long value under a double key.
func (e *Engine) RecordDoubleLong(id TrackerID, key float64, value int64) {
	e.record(id, 0, key, nil, value, nan, nil)
}

// RecordDoubleDouble records a double value under a double key.
func (e *Engine) RecordDoubleDouble(id TrackerID, key float64, value float64) {
	e.record(id, 0, key, nil, 0, value, nil)
}

// RecordDoubleObject records an object value under a double key.
func (e *Engine) RecordDoubleObject(id TrackerID, key float64, value any) {
	e.record(id, 0, key, nil, 0, nan, value)
}

// RecordObjectLong records a long value under an object key.
func (e *Engine) RecordObjectLong(id TrackerID, key any, value int64) {
	e.record(id, 0, nan, key, value, nan, nil)
}

// RecordObjectDouble records a double value under an object key.
func (e *Engine) RecordObjectDouble(id TrackerID, key any, value float64) {
	e.record(id, 0, nan, key, 0, value, nil)
}

// RecordObjectObject records an object value under an object key.
func (e *Engine) RecordObjectObject(id TrackerID, key any, value any) {
	e.record(id, 0, nan, key, 0, nan, value)
}

// Close describes the close operation and its observable behavior.
//
// Close stops scheduling, waits for committed observations to be applied,
// and closes the stat logger. Later calls return the first result.
func (e *Engine) Close() error {
	if e == nil || e.conductor == nil {
		return nil
	}
	e.closed.Store(true)
	return e.conductor.Close()
}

// Missed returns observations dropped because the ring was full and not yet
// reported by a log event.
func (e *Engine) Missed() uint64 {
	if e == nil || e.conductor == nil {
		return 0
	}
	return e.conductor.Missed()
}

// Failed reports whether the dispatcher stopped on an unrecoverable error.
// A failed engine keeps accepting calls but no longer applies them.
func (e *Engine) Failed() bool {
	if e == nil || e.conductor == nil {
		return false
	}
	return e.conductor.Failed()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot returns empty maps when metrics are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// InstanceID identifies this engine in sink output.
func (e *Engine) InstanceID() string {
	if e == nil {
		return ""
	}
	return e.instanceID
}

// Config returns a copy of the configuration the engine was built with.
func (e *Engine) Config() Config {
	if e == nil {
		return defaultConfig()
	}
	return cloneConfig(e.config)
}
