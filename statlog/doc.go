// Package statlog provides stat.Logger implementations that receive tracker
// snapshots from the conductor's dispatcher goroutine.
//
// Sinks are selected by name through a small registry: [Register] adds a
// [Factory] and [Open] builds a logger from [Options]. Built-in names are
// "stderr", "stdout", "log", "json", "statsd", "redis", "sqlite",
// "prometheus", "otel", "multi" and "none".
//
// # Architecture boundaries
//
// Log runs on the dispatcher goroutine, so it may read the tracker directly
// but must not retain it. Slow sinks slow the dispatcher; sinks that talk to
// the network bound each call with a timeout.
//
// # What this package must NOT do
//
//   - Import goStats or internal/conductor.
//   - Mutate a tracker other than through Snapshot.
package statlog
