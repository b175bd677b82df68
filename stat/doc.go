// Package stat defines the collaborator contracts shared by the goStats
// conductor, tracker implementations, and stat loggers.
//
// # Architecture boundaries
//
// stat is a leaf package. The root goStats package, internal/conductor,
// trackers, interval, and statlog all depend on it; it depends on nothing
// but the standard library.
//
// # What this package must NOT do
//
//   - Import goStats or any sibling package.
//   - Hold conductor state or perform I/O.
package stat
