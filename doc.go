// Package goStats records application statistics off the hot path and logs
// them on a schedule.
//
// Producers call the Record methods on [Engine] from any goroutine. Each call
// claims a slot in a fixed-size ring, fills it, and returns without waiting;
// when the ring is full the observation is dropped and counted. A single
// dispatcher goroutine applies observations to their [Tracker] in claim order,
// and a scheduler goroutine injects log and reset events at the times given by
// each tracker's [Interval]s. Snapshots go to a [StatLogger] chosen by name
// from the statlog registry or supplied directly.
//
// # Architecture boundaries
//
// goStats is the public surface. It exposes [Engine], [Builder], [Config] and
// aliases for the collaborator interfaces in package stat. The ring, commit
// barrier, dispatcher and scheduler live under internal/conductor and are
// never exported.
//
// # What this package must NOT do
//
//   - Block a Record call. Only Register, Reset and Close may wait.
//   - Touch a Tracker outside the dispatcher goroutine.
//   - Import any sub-package that re-imports goStats (no import cycles).
//
// # Performance contract
//
// Record is the hot path. It performs one compare-and-swap claim and one
// commit, and must not allocate for long and double values.
package goStats
