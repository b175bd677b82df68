package conductor

import (
	"runtime"
	"time"
)

const (
	backoffSpins    = 64
	backoffYields   = 128
	backoffMaxSleep = time.Millisecond
)

// backoff escalates from busy spinning to yielding to capped sleeps.
type backoff struct {
	n int
}

func (b *backoff) wait() {
	b.n++
	switch {
	case b.n <= backoffSpins:
	case b.n <= backoffYields:
		runtime.Gosched()
	default:
		shift := b.n - backoffYields
		if shift > 10 {
			shift = 10
		}
		d := time.Microsecond << uint(shift)
		if d > backoffMaxSleep {
			d = backoffMaxSleep
		}
		time.Sleep(d)
	}
}
