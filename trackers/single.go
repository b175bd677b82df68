package trackers

import (
	"math"

	"github.com/MrEthical07/goStats/stat"
)

// ValueStat names the statistic of single-value trackers.
const ValueStat = "value"

// AggregateLong sums long values.
type AggregateLong struct {
	sum   int64
	count int64
}

func NewAggregateLong() *AggregateLong { return &AggregateLong{} }

func (t *AggregateLong) Record(r stat.Record) {
	t.sum += r.ValueLong()
	t.count++
}

func (t *AggregateLong) Reset() { *t = AggregateLong{} }

func (t *AggregateLong) Snapshot() []stat.Value {
	return []stat.Value{stat.LongValue(ValueStat, t.sum), stat.LongValue("count", t.count)}
}

// AggregateDouble sums double values.
type AggregateDouble struct {
	sum   float64
	count int64
}

func NewAggregateDouble() *AggregateDouble { return &AggregateDouble{} }

func (t *AggregateDouble) Record(r stat.Record) {
	t.sum += r.ValueDouble()
	t.count++
}

func (t *AggregateDouble) Reset() { *t = AggregateDouble{} }

func (t *AggregateDouble) Snapshot() []stat.Value {
	return []stat.Value{stat.DoubleValue(ValueStat, t.sum), stat.LongValue("count", t.count)}
}

// AverageLong reports the mean of long values as a double.
type AverageLong struct {
	sum   int64
	count int64
}

func NewAverageLong() *AverageLong { return &AverageLong{} }

func (t *AverageLong) Record(r stat.Record) {
	t.sum += r.ValueLong()
	t.count++
}

func (t *AverageLong) Reset() { *t = AverageLong{} }

func (t *AverageLong) Snapshot() []stat.Value {
	if t.count == 0 {
		return []stat.Value{stat.NullValue(ValueStat, stat.TypeDouble), stat.LongValue("count", 0)}
	}
	return []stat.Value{
		stat.DoubleValue(ValueStat, float64(t.sum)/float64(t.count)),
		stat.LongValue("count", t.count),
	}
}

// AverageDouble reports the mean of double values.
type AverageDouble struct {
	sum   float64
	count int64
}

func NewAverageDouble() *AverageDouble { return &AverageDouble{} }

func (t *AverageDouble) Record(r stat.Record) {
	t.sum += r.ValueDouble()
	t.count++
}

func (t *AverageDouble) Reset() { *t = AverageDouble{} }

func (t *AverageDouble) Snapshot() []stat.Value {
	if t.count == 0 {
		return []stat.Value{stat.NullValue(ValueStat, stat.TypeDouble), stat.LongValue("count", 0)}
	}
	return []stat.Value{
		stat.DoubleValue(ValueStat, t.sum/float64(t.count)),
		stat.LongValue("count", t.count),
	}
}

// LastLong keeps the most recent long value.
type LastLong struct {
	value int64
	set   bool
}

func NewLastLong() *LastLong { return &LastLong{} }

func (t *LastLong) Record(r stat.Record) { t.value, t.set = r.ValueLong(), true }
func (t *LastLong) Reset()               { *t = LastLong{} }

func (t *LastLong) Snapshot() []stat.Value {
	if !t.set {
		return []stat.Value{stat.NullValue(ValueStat, stat.TypeLong)}
	}
	return []stat.Value{stat.LongValue(ValueStat, t.value)}
}

// LastDouble keeps the most recent double value. A recorded NaN reads as null.
type LastDouble struct {
	value float64
	set   bool
}

func NewLastDouble() *LastDouble { return &LastDouble{} }

func (t *LastDouble) Record(r stat.Record) { t.value, t.set = r.ValueDouble(), true }
func (t *LastDouble) Reset()               { *t = LastDouble{} }

func (t *LastDouble) Snapshot() []stat.Value {
	if !t.set || math.IsNaN(t.value) {
		return []stat.Value{stat.NullValue(ValueStat, stat.TypeDouble)}
	}
	return []stat.Value{stat.DoubleValue(ValueStat, t.value)}
}

// LastObject keeps the most recent object value.
type LastObject struct {
	value any
}

func NewLastObject() *LastObject { return &LastObject{} }

func (t *LastObject) Record(r stat.Record) { t.value = r.ValueObject() }
func (t *LastObject) Reset()               { t.value = nil }

func (t *LastObject) Snapshot() []stat.Value {
	return []stat.Value{stat.ObjectValue(ValueStat, t.value)}
}
