// Package trackers provides the stock stat.Tracker implementations.
//
// Trackers are driven exclusively by the conductor's dispatcher goroutine and
// are not safe for concurrent use on their own. Each reads the key and value
// representation matching its name (Long, Double or Object) from the record
// and ignores the others.
//
// Single-value trackers report one statistic named "value"; it is null until
// something has been recorded since the last reset. Aggregate trackers also
// report "count".
package trackers
