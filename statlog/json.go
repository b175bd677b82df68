package statlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/sugawarayuuta/sonnet"
)

// JSONConfig configures the json sink.
type JSONConfig struct {
	// Path appends to a file when set; otherwise Options.Writer, then stdout,
	// is used.
	Path string `toml:"path"`
}

// Payload is the JSON document written per snapshot and published by the
// redis sink.
type Payload struct {
	Timestamp int64       `json:"ts"`
	Instance  string      `json:"instance,omitempty"`
	Logger    string      `json:"logger,omitempty"`
	UID       int         `json:"uid"`
	Tracker   string      `json:"tracker"`
	Stats     []StatField `json:"stats"`
}

// StatField is one statistic inside a Payload. Value is nil for null stats.
type StatField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// NewPayload captures a snapshot as a Payload. Timestamp is in unix
// milliseconds.
func NewPayload(instance, logger string, id stat.ID, values []stat.Value, scheduled time.Time) Payload {
	p := Payload{
		Timestamp: scheduled.UnixMilli(),
		Instance:  instance,
		Logger:    logger,
		UID:       id.UID(),
		Tracker:   id.Display(),
		Stats:     make([]StatField, 0, len(values)),
	}
	for _, v := range values {
		f := StatField{Name: v.Name, Type: v.Type.String()}
		if !v.Null {
			switch v.Type {
			case stat.TypeLong:
				f.Value = v.Long
			case stat.TypeDouble:
				f.Value = v.Double
			default:
				f.Value = v.Text()
			}
		}
		p.Stats = append(p.Stats, f)
	}
	return p
}

// JSON writes one JSON object per line.
type JSON struct {
	mu       sync.Mutex
	w        io.Writer
	closer   io.Closer
	instance string
	name     string
}

// NewJSON returns a JSON sink writing to w. It does not close w.
func NewJSON(w io.Writer, name, instance string) *JSON {
	return &JSON{w: w, name: name, instance: instance}
}

func openJSON(o Options) (stat.Logger, error) {
	if o.JSON.Path != "" {
		f, err := os.OpenFile(o.JSON.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		j := NewJSON(f, o.Name, o.Instance)
		j.closer = f
		return j, nil
	}
	if o.Writer != nil {
		return NewJSON(o.Writer, o.Name, o.Instance), nil
	}
	return NewJSON(os.Stdout, o.Name, o.Instance), nil
}

func (j *JSON) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	if j.w == nil {
		return ErrNilWriter
	}
	data, err := sonnet.Marshal(NewPayload(j.instance, j.name, id, tracker.Snapshot(), scheduled))
	if err != nil {
		return fmt.Errorf("encode %s: %w", id.Display(), err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.w.Write(data)
	return err
}

func (j *JSON) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closer == nil {
		return nil
	}
	err := j.closer.Close()
	j.closer = nil
	return err
}
