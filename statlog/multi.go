package statlog

import (
	"errors"
	"time"

	"github.com/MrEthical07/goStats/stat"
)

// Multi fans each snapshot out to every child. A failing child does not stop
// the others; failures are joined.
type Multi struct {
	children []stat.Logger
}

// NewMulti returns a Multi over the non-nil loggers.
func NewMulti(loggers ...stat.Logger) *Multi {
	m := &Multi{children: make([]stat.Logger, 0, len(loggers))}
	for _, l := range loggers {
		if l != nil {
			m.children = append(m.children, l)
		}
	}
	return m
}

func (m *Multi) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	var errs []error
	for _, l := range m.children {
		if err := l.Log(id, tracker, scheduled); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, l := range m.children {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
