package boc

import (
	"sort"
	"sync/atomic"
	"unsafe"
)

// behavior is a scheduled closure together with the cowns it needs
// exclusive access to. count starts at len(requests) and is decremented
// by resolveOne as each cown grants access; the thunk dispatches to the
// worker pool the moment count hits zero.
type behavior struct {
	thunk    func()
	count    atomic.Int64
	requests []*request
}

func newBehavior(requests []*request, thunk func()) *behavior {
	return &behavior{thunk: thunk, requests: requests}
}

// tailAddr gives every request a stable identity to sort by: the
// address of the cown's own tail pointer. Sorting requests into this
// order before enqueuing them is the classical global-order deadlock
// avoidance — two behaviors that both want cowns A and B always
// enqueue on the same one first, so neither can be stuck waiting on the
// other.
func tailAddr(r *request) uintptr {
	return uintptr(unsafe.Pointer(r.tail))
}

// schedule performs the two-phase enqueue described at package level
// and, once every cown is available, leaves the thunk to be dispatched
// by resolveOne.
func (b *behavior) schedule() {
	sort.Slice(b.requests, func(i, j int) bool {
		return tailAddr(b.requests[i]) < tailAddr(b.requests[j])
	})
	b.count.Store(int64(len(b.requests)))

	if len(b.requests) == 0 {
		dispatch(b)
		return
	}

	// Phase 1 (start_enqueue): smallest cown first, swap ourselves onto
	// the tail and either resolve immediately (queue was empty) or wait
	// for the previous occupant to finish its own phase one everywhere.
	priors := make([]*request, len(b.requests))
	for i, r := range b.requests {
		prior := r.tail.Swap(r)
		priors[i] = prior
		if prior == nil {
			b.resolveOne()
		} else {
			prior.waitScheduled()
		}
	}

	// Phase 2 (finish_enqueue): publish the link back to whoever we
	// swapped out, then announce that we've finished enqueuing
	// everywhere, unblocking anything waiting on us in phase one.
	for i, r := range b.requests {
		if priors[i] != nil {
			priors[i].publishNext(b)
		}
		r.markScheduled()
	}
}

// resolveOne decrements the behavior's outstanding-cown count. At zero,
// every cown has granted access and the thunk is handed to the worker
// pool.
func (b *behavior) resolveOne() {
	if b.count.Add(-1) == 0 {
		dispatch(b)
	}
}

// release hands each of the behavior's cowns off to whoever is queued
// up behind it, called once the thunk has returned. Order doesn't
// matter here: unlike scheduling, releasing a cown can't deadlock,
// since the only wait during release is for a successor that has
// already swapped itself onto the tail to publish its link, which its
// own schedule does without waiting on any release.
func (b *behavior) release() {
	for _, r := range b.requests {
		if next := r.nextBehavior.Load(); next != nil {
			next.resolveOne()
			continue
		}
		if r.tail.CompareAndSwap(r, nil) {
			continue
		}
		// Someone enqueued after us but hasn't published their link yet;
		// wait for it rather than spinning on the tail pointer.
		r.waitNext().resolveOne()
	}
}
