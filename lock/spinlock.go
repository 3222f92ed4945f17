package lock

import "sync/atomic"

// SpinLock is a test-and-test-and-set spin lock: lock() busy-waits on a
// single shared flag. It is the simplest RawLock, and the least scalable
// under contention since every waiter spins on the same cache line.
type SpinLock struct {
	locked atomic.Bool
}

var (
	_ RawLock[struct{}]    = (*SpinLock)(nil)
	_ RawTryLock[struct{}] = (*SpinLock)(nil)
)

// NewSpinLock returns an unlocked SpinLock.
func NewSpinLock() *SpinLock {
	return &SpinLock{}
}

// Lock implements RawLock.
func (l *SpinLock) Lock() struct{} {
	var b backoff
	for !l.locked.CompareAndSwap(false, true) {
		b.snooze()
	}
	return struct{}{}
}

// TryLock implements RawTryLock.
func (l *SpinLock) TryLock() (struct{}, bool) {
	return struct{}{}, l.locked.CompareAndSwap(false, true)
}

// Unlock implements RawLock.
func (l *SpinLock) Unlock(struct{}) {
	l.locked.Store(false)
}
