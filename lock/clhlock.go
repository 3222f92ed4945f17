package lock

import "sync/atomic"

type clhNode struct {
	locked atomic.Bool
}

// CLHLock is the Craig/Landin/Hwang queue lock: like MCSLock every waiter
// spins locally, but the queue is threaded implicitly through the
// predecessor each waiter swaps out of tail rather than through explicit
// next pointers. Go's garbage collector reclaims predecessor nodes once
// unreferenced; no manual handoff-and-free protocol is needed.
type CLHLock struct {
	tail atomic.Pointer[clhNode]
}

var _ RawLock[*clhNode] = (*CLHLock)(nil)

// NewCLHLock returns an unlocked CLHLock, seeded with one already-unlocked
// sentinel node for the first acquirer to spin on.
func NewCLHLock() *CLHLock {
	l := &CLHLock{}
	sentinel := &clhNode{}
	l.tail.Store(sentinel)
	return l
}

// Lock implements RawLock. The token is the caller's own node, to be
// handed back to Unlock.
func (l *CLHLock) Lock() *clhNode {
	node := &clhNode{}
	node.locked.Store(true)

	prev := l.tail.Swap(node)
	var b backoff
	for prev.locked.Load() {
		b.snooze()
	}
	return node
}

// Unlock implements RawLock.
func (l *CLHLock) Unlock(node *clhNode) {
	node.locked.Store(false)
}
