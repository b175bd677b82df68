package statlog

import "errors"

var (
	// ErrUnknownLogger is returned by Open for names not in the registry.
	ErrUnknownLogger = errors.New("unknown stat logger")
	// ErrNilWriter is returned when a writer-backed sink has no destination.
	ErrNilWriter = errors.New("nil writer")
	// ErrNilRedis is returned when the redis sink is opened without a client.
	ErrNilRedis = errors.New("nil redis client")
	// ErrNilMeter is returned when the otel sink is opened without a meter.
	ErrNilMeter = errors.New("nil meter")
	// ErrNestedMulti rejects multi targets that name another multi sink.
	ErrNestedMulti = errors.New("multi stat logger cannot nest multi")
	// ErrLoggerClosed is returned by Log after Close.
	ErrLoggerClosed = errors.New("stat logger closed")
)
