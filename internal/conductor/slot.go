package conductor

import (
	"math"
	"time"

	"github.com/MrEthical07/goStats/stat"
)

// Kind is the event carried by a slot.
type Kind uint8

const (
	KindNone Kind = iota
	KindAddTracker
	KindRecord
	KindReset
	KindLog
	KindLogAndReset
)

func (k Kind) String() string {
	switch k {
	case KindAddTracker:
		return "add_tracker"
	case KindRecord:
		return "record"
	case KindReset:
		return "reset"
	case KindLog:
		return "log"
	case KindLogAndReset:
		return "log_and_reset"
	default:
		return "none"
	}
}

// slot is one reusable ring element. Fields are written by the claiming
// producer before commit and cleared by the consumer before release.
type slot struct {
	seq     uint64
	kind    Kind
	id      stat.ID
	tracker stat.Tracker

	logInterval   stat.Interval
	resetInterval stat.Interval
	timestamp     time.Time

	keyLong     int64
	keyDouble   float64
	keyObject   any
	valueLong   int64
	valueDouble float64
	valueObject any

	barrier commitBarrier
}

var _ stat.Record = (*slot)(nil)

func (s *slot) KeyLong() int64       { return s.keyLong }
func (s *slot) KeyDouble() float64   { return s.keyDouble }
func (s *slot) KeyObject() any       { return s.keyObject }
func (s *slot) ValueLong() int64     { return s.valueLong }
func (s *slot) ValueDouble() float64 { return s.valueDouble }
func (s *slot) ValueObject() any     { return s.valueObject }

func (s *slot) setAddTracker(id stat.ID, tracker stat.Tracker, logInterval, resetInterval stat.Interval) {
	s.kind = KindAddTracker
	s.id = id
	s.tracker = tracker
	s.logInterval = logInterval
	s.resetInterval = resetInterval
}

func (s *slot) setRecord(id stat.ID, keyLong int64, keyDouble float64, keyObject any, valueLong int64, valueDouble float64, valueObject any) {
	s.kind = KindRecord
	s.id = id
	s.keyLong = keyLong
	s.keyDouble = keyDouble
	s.keyObject = keyObject
	s.valueLong = valueLong
	s.valueDouble = valueDouble
	s.valueObject = valueObject
}

func (s *slot) setControl(kind Kind, id stat.ID, ts time.Time) {
	s.kind = kind
	s.id = id
	s.timestamp = ts
}

func (s *slot) clear() {
	s.kind = KindNone
	s.id = nil
	s.tracker = nil
	s.logInterval = nil
	s.resetInterval = nil
	s.timestamp = time.Time{}
	s.keyLong = 0
	s.keyDouble = math.NaN()
	s.keyObject = nil
	s.valueLong = 0
	s.valueDouble = math.NaN()
	s.valueObject = nil
}
