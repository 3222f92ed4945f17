package lock

import (
	"sync/atomic"
)

type mcsNode struct {
	locked atomic.Bool
	next   atomic.Pointer[mcsNode]
}

// MCSLock is the Mellor-Crummey/Scott queue lock: every waiter spins on
// its own node instead of a shared flag, so contention does not cause
// cache-line ping-pong the way SpinLock's does. Unlike the caller-owned
// QNode style used elsewhere in the Go ecosystem, lock() here allocates
// its own node per acquisition and hands it back as the opaque Token, to
// match this package's RawLock contract (every lock in the family returns
// an opaque token from Lock and consumes it in Unlock).
type MCSLock struct {
	tail atomic.Pointer[mcsNode]
}

var _ RawLock[*mcsNode] = (*MCSLock)(nil)

// NewMCSLock returns an unlocked MCSLock.
func NewMCSLock() *MCSLock {
	return &MCSLock{}
}

// Lock implements RawLock.
func (l *MCSLock) Lock() *mcsNode {
	node := &mcsNode{}
	node.locked.Store(true)

	prev := l.tail.Swap(node)
	if prev == nil {
		return node
	}

	prev.next.Store(node)

	var b backoff
	for node.locked.Load() {
		b.snooze()
	}
	return node
}

// Unlock implements RawLock.
func (l *MCSLock) Unlock(node *mcsNode) {
	if node.next.Load() == nil {
		if l.tail.CompareAndSwap(node, nil) {
			return
		}
		var b backoff
		for node.next.Load() == nil {
			b.snooze()
		}
	}
	node.next.Load().locked.Store(false)
}
