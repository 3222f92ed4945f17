package boc

import "sync/atomic"

// request is one behavior's claim on one cown. It lives exactly as long
// as it is enqueued: created when its behavior schedules, and forgotten
// once the behavior releases the cown to whoever queued up next (or
// finds no one did).
//
// next and scheduled are the two signals the 2PL protocol hands between
// adjacent requests on the same cown. Both are channels rather than
// plain atomics: a request waiting on either one parks the goroutine
// instead of spinning, which is the "BoC waits suspend on OS signals"
// behavior this runtime is meant to have.
type request struct {
	tail *atomic.Pointer[request] // the cown's last pointer

	nextBehavior atomic.Pointer[behavior] // who queued up behind us
	nextSet      chan struct{}            // closed once nextBehavior is published
	scheduled    chan struct{}            // closed once this request has finished enqueuing everywhere
}

func newRequest(tail *atomic.Pointer[request]) *request {
	return &request{
		tail:      tail,
		nextSet:   make(chan struct{}),
		scheduled: make(chan struct{}),
	}
}

// waitScheduled blocks until the occupant ahead of us (r, which was the
// prior tail we swapped out) has finished enqueuing on every cown it
// needed. This is the wait half of 2PL's phase one: it is what prevents
// a later behavior's requests from becoming visible before an earlier
// behavior's are all in place.
func (r *request) waitScheduled() {
	<-r.scheduled
}

// markScheduled is phase two's second step: once our next link (if any)
// has been published, we announce that subsequent behaviors queued
// behind us on this cown may proceed.
func (r *request) markScheduled() {
	close(r.scheduled)
}

// publishNext links this request to the behavior that queued up behind
// it on the same cown. Called by that behavior's own schedule, not by r
// itself.
func (r *request) publishNext(b *behavior) {
	r.nextBehavior.Store(b)
	close(r.nextSet)
}

// waitNext blocks until publishNext has run, then returns the behavior
// it published. Used during release when the CAS that would otherwise
// clear the cown's tail loses a race against a concurrent enqueue.
func (r *request) waitNext() *behavior {
	<-r.nextSet
	return r.nextBehavior.Load()
}
