package conductor

import "errors"

var (
	// ErrInvalidCapacity is returned when the ring capacity is not a power of two >= 2.
	ErrInvalidCapacity = errors.New("ring capacity must be a power of two >= 2")
	// ErrClosed is returned by blocking operations once the conductor is closing.
	ErrClosed = errors.New("conductor closed")
	// ErrUnknownEventKind is reported when a slot carries an unrecognised kind.
	ErrUnknownEventKind = errors.New("unknown event kind")
)
