package trackers

import (
	"fmt"
	"strconv"

	"github.com/MrEthical07/goStats/stat"
)

// Keyed keeps the latest value per key and reports one statistic per key,
// named after the key, in first-insertion order. Reset forgets every key.
//
// Object keys must be comparable; a record with an uncomparable key panics
// and is discarded by the dispatcher. Records keyed by NaN, the unkeyed
// sentinel for double keys, are ignored.
type Keyed[K comparable, V any] struct {
	key   func(stat.Record) K
	value func(stat.Record) V
	name  func(K) string
	emit  func(name string, v V) stat.Value

	index map[K]int
	keys  []K
	vals  []V
}

func newKeyed[K comparable, V any](
	key func(stat.Record) K,
	name func(K) string,
	value func(stat.Record) V,
	emit func(string, V) stat.Value,
) *Keyed[K, V] {
	return &Keyed[K, V]{key: key, value: value, name: name, emit: emit, index: make(map[K]int)}
}

func (t *Keyed[K, V]) Record(r stat.Record) {
	k := t.key(r)
	// NaN never equals itself, so it could never be found again.
	if k != k {
		return
	}
	v := t.value(r)
	if i, ok := t.index[k]; ok {
		t.vals[i] = v
		return
	}
	t.index[k] = len(t.keys)
	t.keys = append(t.keys, k)
	t.vals = append(t.vals, v)
}

func (t *Keyed[K, V]) Reset() {
	clear(t.index)
	clear(t.keys)
	clear(t.vals)
	t.keys = t.keys[:0]
	t.vals = t.vals[:0]
}

func (t *Keyed[K, V]) Snapshot() []stat.Value {
	out := make([]stat.Value, len(t.keys))
	for i, k := range t.keys {
		out[i] = t.emit(t.name(k), t.vals[i])
	}
	return out
}

// Len returns the number of distinct keys since the last reset.
func (t *Keyed[K, V]) Len() int { return len(t.keys) }

// Get returns the latest value recorded for k.
func (t *Keyed[K, V]) Get(k K) (V, bool) {
	i, ok := t.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return t.vals[i], true
}

func keyLong(r stat.Record) int64     { return r.KeyLong() }
func keyDouble(r stat.Record) float64 { return r.KeyDouble() }
func keyObject(r stat.Record) any     { return r.KeyObject() }

func valueLong(r stat.Record) int64     { return r.ValueLong() }
func valueDouble(r stat.Record) float64 { return r.ValueDouble() }
func valueObject(r stat.Record) any     { return r.ValueObject() }

func nameLong(k int64) string     { return strconv.FormatInt(k, 10) }
func nameDouble(k float64) string { return strconv.FormatFloat(k, 'g', -1, 64) }
func nameObject(k any) string     { return fmt.Sprint(k) }

// NewLongLongMap keeps the latest long value per long key.
func NewLongLongMap() *Keyed[int64, int64] {
	return newKeyed(keyLong, nameLong, valueLong, stat.LongValue)
}

// NewLongDoubleMap keeps the latest double value per long key.
func NewLongDoubleMap() *Keyed[int64, float64] {
	return newKeyed(keyLong, nameLong, valueDouble, stat.DoubleValue)
}

// NewLongObjectMap keeps the latest object value per long key.
func NewLongObjectMap() *Keyed[int64, any] {
	return newKeyed(keyLong, nameLong, valueObject, stat.ObjectValue)
}

// NewDoubleLongMap keeps the latest long value per double key.
func NewDoubleLongMap() *Keyed[float64, int64] {
	return newKeyed(keyDouble, nameDouble, valueLong, stat.LongValue)
}

// NewDoubleDoubleMap keeps the latest double value per double key.
func NewDoubleDoubleMap() *Keyed[float64, float64] {
	return newKeyed(keyDouble, nameDouble, valueDouble, stat.DoubleValue)
}

// NewDoubleObjectMap keeps the latest object value per double key.
func NewDoubleObjectMap() *Keyed[float64, any] {
	return newKeyed(keyDouble, nameDouble, valueObject, stat.ObjectValue)
}

// NewObjectLongMap keeps the latest long value per object key.
func NewObjectLongMap() *Keyed[any, int64] {
	return newKeyed(keyObject, nameObject, valueLong, stat.LongValue)
}

// NewObjectDoubleMap keeps the latest double value per object key.
func NewObjectDoubleMap() *Keyed[any, float64] {
	return newKeyed(keyObject, nameObject, valueDouble, stat.DoubleValue)
}

// NewObjectObjectMap keeps the latest object value per object key.
func NewObjectObjectMap() *Keyed[any, any] {
	return newKeyed(keyObject, nameObject, valueObject, stat.ObjectValue)
}
