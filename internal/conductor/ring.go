package conductor

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ring is a fixed-capacity multi-producer single-consumer sequence of slots.
//
// claimed counts reservations handed out to producers. consumed counts slots
// the consumer has fully processed and released. A reservation is allowed
// only while claimed-consumed < capacity-1.
type ring struct {
	_        cpu.CacheLinePad
	claimed  atomic.Uint64
	_        cpu.CacheLinePad
	consumed atomic.Uint64
	_        cpu.CacheLinePad

	// next is the consumer cursor; only the dispatcher goroutine touches it.
	next  uint64
	mask  uint64
	limit uint64
	slots []slot
}

func newRing(capacity int) (*ring, error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	r := &ring{
		mask:  uint64(capacity - 1),
		limit: uint64(capacity - 1),
		slots: make([]slot, capacity),
	}
	for i := range r.slots {
		r.slots[i].barrier.init()
		r.slots[i].clear()
	}
	return r, nil
}

func (r *ring) capacity() int {
	return len(r.slots)
}

// tryClaim reserves the next slot, or returns nil when the ring is saturated.
func (r *ring) tryClaim() *slot {
	for {
		seq := r.claimed.Load()
		consumed := r.consumed.Load()
		if seq < consumed {
			continue
		}
		if seq-consumed >= r.limit {
			return nil
		}
		if r.claimed.CompareAndSwap(seq, seq+1) {
			s := &r.slots[seq&r.mask]
			s.seq = seq
			return s
		}
	}
}

// claim reserves the next sequence immediately and waits until its slot is
// free. It fails only when done is closed.
func (r *ring) claim(done <-chan struct{}) (*slot, error) {
	seq := r.claimed.Add(1) - 1

	var b backoff
	for seq-r.consumed.Load() >= r.limit {
		select {
		case <-done:
			return nil, ErrClosed
		default:
		}
		b.wait()
	}

	s := &r.slots[seq&r.mask]
	s.seq = seq
	return s, nil
}

func (r *ring) commit(s *slot) {
	s.barrier.commit()
}

// take returns the next slot in sequence order once it is committed.
// Consumer only.
func (r *ring) take(done <-chan struct{}) (*slot, error) {
	s := &r.slots[r.next&r.mask]
	if err := s.barrier.await(done); err != nil {
		return nil, err
	}
	r.next++
	return s, nil
}

// tryTake returns the next slot only if it is already committed.
// Consumer only.
func (r *ring) tryTake() *slot {
	s := &r.slots[r.next&r.mask]
	if !s.barrier.isCommitted() {
		return nil
	}
	r.next++
	return s
}

// release clears a processed slot and makes its position claimable again.
// Consumer only.
func (r *ring) release(s *slot) {
	s.clear()
	s.barrier.reset()
	r.consumed.Add(1)
}

// outstanding reports claimed minus consumed.
func (r *ring) outstanding() uint64 {
	return r.claimed.Load() - r.consumed.Load()
}
