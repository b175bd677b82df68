// Package conductor implements the event ring, commit barrier, dispatcher,
// and scheduler behind goStats.
//
// # Design
//
// Producers claim a slot from a fixed-capacity power-of-two ring, fill it in
// place, and commit it. A single dispatcher goroutine takes slots strictly in
// claim order, waiting on each slot's commit barrier, and routes the event to
// the tracker registry or the stat logger. A scheduler goroutine injects Log
// and LogAndReset events into the same ring.
//
// Record events use a non-blocking claim and are dropped (and counted) when
// the ring is saturated. Administrative events (AddTracker, Reset, Log,
// LogAndReset) use a blocking claim and are never dropped while the conductor
// is open.
//
// # Architecture boundaries
//
// This package depends on stat contracts and internal/metrics only. Tracker
// implementations, intervals, and stat logger sinks are supplied by callers.
//
// # What this package must NOT do
//
//   - Import goStats or any sibling public package other than stat.
//   - Allocate or take a lock on the Record path.
//   - Reorder events or skip a claimed-but-uncommitted slot.
package conductor
