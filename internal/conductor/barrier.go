package conductor

import "sync/atomic"

const (
	notCommitted int32 = iota
	waiting
	committed
)

// commitBarrier hands one slot from exactly one producer to the consumer.
type commitBarrier struct {
	state atomic.Int32
	wake  chan struct{}
}

func (b *commitBarrier) init() {
	b.wake = make(chan struct{}, 1)
	b.state.Store(notCommitted)
}

// await blocks until commit has run or done is closed.
func (b *commitBarrier) await(done <-chan struct{}) error {
	for {
		switch b.state.Load() {
		case committed:
			return nil
		case notCommitted:
			if !b.state.CompareAndSwap(notCommitted, waiting) {
				continue
			}
		}

		select {
		case <-b.wake:
			return nil
		case <-done:
			return ErrClosed
		}
	}
}

func (b *commitBarrier) commit() {
	if b.state.Swap(committed) == waiting {
		select {
		case b.wake <- struct{}{}:
		default:
		}
	}
}

func (b *commitBarrier) isCommitted() bool {
	return b.state.Load() == committed
}

// reset must only run after the consumer finished reading the slot.
func (b *commitBarrier) reset() {
	b.state.Store(notCommitted)
	select {
	case <-b.wake:
	default:
	}
}
