package statlog

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MrEthical07/goStats/stat"
)

// TimeLayout formats scheduled times in text output.
const TimeLayout = "2006-01-02 15:04:05.000"

// Writer prints one line per snapshot:
//
//	2026-01-01 00:00:05.000 - name - display - [ sum=10 count=2 ]
//
// Writer does not close the underlying io.Writer.
type Writer struct {
	mu   sync.Mutex
	w    io.Writer
	name string
}

// NewWriter returns a Writer printing to w.
func NewWriter(w io.Writer, name string) *Writer {
	return &Writer{w: w, name: name}
}

func (x *Writer) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	if x == nil || x.w == nil {
		return ErrNilWriter
	}
	line := fmt.Sprintf("%s - %s - %s - %s\n",
		scheduled.Format(TimeLayout), x.name, id.Display(), stat.Format(tracker.Snapshot()))

	x.mu.Lock()
	defer x.mu.Unlock()
	_, err := io.WriteString(x.w, line)
	return err
}

func (x *Writer) Close() error { return nil }
