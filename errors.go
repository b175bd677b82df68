package goStats

import (
	"errors"

	"github.com/MrEthical07/goStats/internal/conductor"
	"github.com/MrEthical07/goStats/statlog"
)

var (
	// ErrClosed is returned by Register and Reset after Close.
	ErrClosed = conductor.ErrClosed
	// ErrNilTracker is returned by Register when the tracker is nil.
	ErrNilTracker = errors.New("nil tracker")
	// ErrNilTrackerID is returned by Register and Reset when the id is nil.
	ErrNilTrackerID = errors.New("nil tracker id")
	// ErrInvalidDisplayName rejects display names outside [0-9A-Za-z_]+.
	ErrInvalidDisplayName = errors.New("invalid tracker display name")
	// ErrInvalidRingSize is returned when the ring size is not a power of two >= 2.
	ErrInvalidRingSize = conductor.ErrInvalidCapacity
	// ErrUnknownConductor is returned for an unregistered Conductor.Impl.
	ErrUnknownConductor = errors.New("unknown conductor")
	// ErrUnknownLogger is returned for an unregistered StatLogger.Impl.
	ErrUnknownLogger = statlog.ErrUnknownLogger
	// ErrBuilderUsed is returned by a second call to Build.
	ErrBuilderUsed = errors.New("builder already used")
)
