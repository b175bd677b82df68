package trackers

import (
	"math"
	"strconv"

	"github.com/MrEthical07/goStats/stat"
)

// LongArray stores values at the index given by the record's long key.
// Slots holding the null value report as null; Reset fills every slot with
// the reset value. Keys outside the array are ignored.
type LongArray struct {
	values    []int64
	nullValue int64
	resetTo   int64
	names     []string
}

// NewLongArray returns a LongArray whose null and reset value is MaxInt64.
func NewLongArray(size int) *LongArray {
	return NewLongArrayWith(size, math.MaxInt64, math.MaxInt64)
}

// NewLongArrayWith sets explicit null and reset values.
func NewLongArrayWith(size int, nullValue, resetValue int64) *LongArray {
	size = max(size, 0)
	t := &LongArray{
		values:    make([]int64, size),
		nullValue: nullValue,
		resetTo:   resetValue,
		names:     indexNames(size),
	}
	t.Reset()
	return t
}

func (t *LongArray) Record(r stat.Record) {
	if k := r.KeyLong(); k >= 0 && k < int64(len(t.values)) {
		t.values[k] = r.ValueLong()
	}
}

func (t *LongArray) Reset() {
	for i := range t.values {
		t.values[i] = t.resetTo
	}
}

func (t *LongArray) Snapshot() []stat.Value {
	out := make([]stat.Value, len(t.values))
	for i, v := range t.values {
		if v == t.nullValue {
			out[i] = stat.NullValue(t.names[i], stat.TypeLong)
		} else {
			out[i] = stat.LongValue(t.names[i], v)
		}
	}
	return out
}

// Len returns the array size.
func (t *LongArray) Len() int { return len(t.values) }

// DoubleArray is LongArray for doubles. NaN slots report as null.
type DoubleArray struct {
	values  []float64
	resetTo float64
	names   []string
}

// NewDoubleArray returns a DoubleArray reset to NaN.
func NewDoubleArray(size int) *DoubleArray {
	return NewDoubleArrayWith(size, math.NaN())
}

// NewDoubleArrayWith sets an explicit reset value.
func NewDoubleArrayWith(size int, resetValue float64) *DoubleArray {
	size = max(size, 0)
	t := &DoubleArray{values: make([]float64, size), resetTo: resetValue, names: indexNames(size)}
	t.Reset()
	return t
}

func (t *DoubleArray) Record(r stat.Record) {
	if k := r.KeyLong(); k >= 0 && k < int64(len(t.values)) {
		t.values[k] = r.ValueDouble()
	}
}

func (t *DoubleArray) Reset() {
	for i := range t.values {
		t.values[i] = t.resetTo
	}
}

func (t *DoubleArray) Snapshot() []stat.Value {
	out := make([]stat.Value, len(t.values))
	for i, v := range t.values {
		if math.IsNaN(v) {
			out[i] = stat.NullValue(t.names[i], stat.TypeDouble)
		} else {
			out[i] = stat.DoubleValue(t.names[i], v)
		}
	}
	return out
}

func (t *DoubleArray) Len() int { return len(t.values) }

// ObjectArray is LongArray for objects. Nil slots report as null.
type ObjectArray struct {
	values []any
	names  []string
}

func NewObjectArray(size int) *ObjectArray {
	size = max(size, 0)
	return &ObjectArray{values: make([]any, size), names: indexNames(size)}
}

func (t *ObjectArray) Record(r stat.Record) {
	if k := r.KeyLong(); k >= 0 && k < int64(len(t.values)) {
		t.values[k] = r.ValueObject()
	}
}

func (t *ObjectArray) Reset() { clear(t.values) }

func (t *ObjectArray) Snapshot() []stat.Value {
	out := make([]stat.Value, len(t.values))
	for i, v := range t.values {
		out[i] = stat.ObjectValue(t.names[i], v)
	}
	return out
}

func (t *ObjectArray) Len() int { return len(t.values) }

func indexNames(size int) []string {
	names := make([]string, size)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}
