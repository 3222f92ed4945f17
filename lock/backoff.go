package lock

import "runtime"

// backoff tracks how long a spin loop has been waiting and escalates from
// busy-spinning to yielding the processor, the same two-phase strategy as
// crossbeam's Backoff. Go's runtime scheduler cooperates
// with runtime.Gosched in a way a plain PAUSE-spin doesn't, so past a
// small number of spins every lock in this package yields instead of
// spinning indefinitely.
type backoff struct {
	spins int
}

const backoffSpinLimit = 32

// snooze spins briefly, then yields to the Go scheduler once contention
// looks sustained.
func (b *backoff) snooze() {
	if b.spins < backoffSpinLimit {
		b.spins++
		for i := 0; i < b.spins; i++ {
			// Empty spin: on most Go targets the compiler cannot elide this
			// loop since i escapes to nothing observable, but it gives the
			// CPU a cheap busy-wait hint without a syscall.
		}
		return
	}
	runtime.Gosched()
}
