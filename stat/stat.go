package stat

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// ID identifies a registered tracker. UID is the registry key; Display is the
// name used by stat loggers.
type ID interface {
	UID() int
	Display() string
}

type simpleID struct {
	uid     int
	display string
}

func (s simpleID) UID() int        { return s.uid }
func (s simpleID) Display() string { return s.display }
func (s simpleID) String() string  { return s.display + "#" + strconv.Itoa(s.uid) }

// NewID returns an ID with a caller-chosen uid.
func NewID(uid int, display string) ID {
	return simpleID{uid: uid, display: display}
}

var generatedUID atomic.Int64

// GenerateID returns an ID with a process-unique uid. Generated uids count
// down from -1 so they never collide with non-negative caller-chosen uids.
func GenerateID(display string) ID {
	return simpleID{uid: int(generatedUID.Add(-1)), display: display}
}

// Record exposes the typed key and value fields of one observation. Exactly
// one key and one value representation are meaningful per call; the others
// hold sentinels (0, NaN, nil).
type Record interface {
	KeyLong() int64
	KeyDouble() float64
	KeyObject() any
	ValueLong() int64
	ValueDouble() float64
	ValueObject() any
}

// Tracker aggregates observations. All methods are invoked from the
// dispatcher goroutine only, so implementations need no locking.
type Tracker interface {
	Record(r Record)
	Reset()
	Snapshot() []Value
}

// Interval computes absolute dispatch times. A false return means never.
type Interval interface {
	First(now time.Time) (time.Time, bool)
	Next(t time.Time) (time.Time, bool)
}

// Logger receives tracker snapshots on Log and LogAndReset events. Log runs on
// the dispatcher goroutine; Close is called once at conductor shutdown.
type Logger interface {
	Log(id ID, tracker Tracker, scheduled time.Time) error
	Close() error
}

// Type is the representation carried by a Value.
type Type uint8

const (
	// TypeLong marks a Value whose Long field is meaningful.
	TypeLong Type = iota
	// TypeDouble marks a Value whose Double field is meaningful.
	TypeDouble
	// TypeObject marks a Value whose Object field is meaningful.
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeLong:
		return "long"
	case TypeDouble:
		return "double"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one named statistic produced by Tracker.Snapshot.
type Value struct {
	Name   string
	Type   Type
	Null   bool
	Long   int64
	Double float64
	Object any
}

// LongValue builds a TypeLong value.
func LongValue(name string, v int64) Value {
	return Value{Name: name, Type: TypeLong, Long: v}
}

// DoubleValue builds a TypeDouble value.
func DoubleValue(name string, v float64) Value {
	return Value{Name: name, Type: TypeDouble, Double: v}
}

// ObjectValue builds a TypeObject value; a nil object is reported as null.
func ObjectValue(name string, v any) Value {
	return Value{Name: name, Type: TypeObject, Object: v, Null: v == nil}
}

// NullValue builds a null value of the given type.
func NullValue(name string, t Type) Value {
	return Value{Name: name, Type: t, Null: true}
}

// Numeric reports the value as a float64. ok is false for null values and
// objects.
func (v Value) Numeric() (float64, bool) {
	if v.Null {
		return 0, false
	}
	switch v.Type {
	case TypeLong:
		return float64(v.Long), true
	case TypeDouble:
		return v.Double, true
	default:
		return 0, false
	}
}

// Text renders the value without its name. Null values render as "null".
func (v Value) Text() string {
	if v.Null {
		return "null"
	}
	switch v.Type {
	case TypeLong:
		return strconv.FormatInt(v.Long, 10)
	case TypeDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	default:
		return fmt.Sprint(v.Object)
	}
}

func (v Value) String() string {
	return v.Name + "=" + v.Text()
}

// Format renders a snapshot as "[ a=1 b=2 ]".
func Format(values []Value) string {
	buf := make([]byte, 0, 16*len(values)+4)
	buf = append(buf, '[')
	for _, v := range values {
		buf = append(buf, ' ')
		buf = append(buf, v.String()...)
	}
	buf = append(buf, " ]"...)
	return string(buf)
}
