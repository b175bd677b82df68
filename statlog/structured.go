package statlog

import (
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/joeycumines/logiface"
)

// Structured emits one informational log event per snapshot, with one field
// per statistic. A nil logger makes it a no-op.
type Structured struct {
	log  *logiface.Logger[logiface.Event]
	name string
}

// NewStructured returns a Structured sink.
func NewStructured(log *logiface.Logger[logiface.Event], name string) *Structured {
	return &Structured{log: log, name: name}
}

func (x *Structured) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	b := x.log.Info()
	if b == nil {
		return nil
	}
	b = b.Str("logger", x.name).
		Str("tracker", id.Display()).
		Int("uid", id.UID()).
		Time("scheduled", scheduled)
	for _, v := range tracker.Snapshot() {
		switch {
		case v.Null:
			b = b.Any(v.Name, nil)
		case v.Type == stat.TypeLong:
			b = b.Int64(v.Name, v.Long)
		case v.Type == stat.TypeDouble:
			b = b.Float64(v.Name, v.Double)
		default:
			b = b.Str(v.Name, v.Text())
		}
	}
	b.Log("stats")
	return nil
}

func (x *Structured) Close() error { return nil }
