// Package interval provides the stock scheduling policies for tracker log and
// reset intervals.
//
// Fixed intervals are aligned to midnight of the current day so that, for
// example, a five minute interval fires at :00, :05, :10 regardless of when
// the tracker was registered.
package interval
