package goStats

import (
	"github.com/MrEthical07/goStats/internal/conductor"
	"github.com/MrEthical07/goStats/stat"
)

// TrackerID identifies a registered tracker. UID keys the registry; Display
// names the tracker in stat logger output.
type TrackerID = stat.ID

// Tracker aggregates observations. It is only touched by the dispatcher
// goroutine.
type Tracker = stat.Tracker

// Record exposes the fields of one observation to a Tracker.
type Record = stat.Record

// Interval yields absolute log or reset times; see package interval.
type Interval = stat.Interval

// StatLogger receives tracker snapshots; see package statlog.
type StatLogger = stat.Logger

// Clock is the time source of the scheduler. Tests substitute a fake.
type Clock = conductor.Clock

// Timer is returned by Clock.NewTimer.
type Timer = conductor.Timer

// NewTrackerID returns a TrackerID with a caller-chosen uid.
func NewTrackerID(uid int, display string) TrackerID {
	return stat.NewID(uid, display)
}

// GenerateTrackerID returns a TrackerID with a process-unique negative uid.
func GenerateTrackerID(display string) TrackerID {
	return stat.GenerateID(display)
}
