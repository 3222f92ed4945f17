package boc

// Run1 schedules f to run with exclusive access to c1's value. f runs
// asynchronously on the worker pool once c1 is available; Run1 returns
// without waiting for f to run, though it may briefly wait for a
// behavior already queued on c1 to finish enqueuing.
func Run1[A any](c1 *CownPtr[A], f func(a *A)) {
	b := newBehavior([]*request{c1.newRequest()}, func() {
		f(&c1.c.value)
	})
	b.schedule()
}

// Run2 schedules f to run with exclusive access to both c1's and c2's
// values, atomically: no other behavior scheduled over either cown can
// run concurrently with f, and the two cowns are locked in a global
// order so two Run2 calls sharing both cowns can never deadlock each
// other.
func Run2[A, B any](c1 *CownPtr[A], c2 *CownPtr[B], f func(a *A, b *B)) {
	b := newBehavior([]*request{c1.newRequest(), c2.newRequest()}, func() {
		f(&c1.c.value, &c2.c.value)
	})
	b.schedule()
}

// Run3 is Run2 for three cowns.
func Run3[A, B, C any](c1 *CownPtr[A], c2 *CownPtr[B], c3 *CownPtr[C], f func(a *A, b *B, c *C)) {
	b := newBehavior([]*request{c1.newRequest(), c2.newRequest(), c3.newRequest()}, func() {
		f(&c1.c.value, &c2.c.value, &c3.c.value)
	})
	b.schedule()
}

// Run4 is Run2 for four cowns.
func Run4[A, B, C, D any](c1 *CownPtr[A], c2 *CownPtr[B], c3 *CownPtr[C], c4 *CownPtr[D], f func(a *A, b *B, c *C, d *D)) {
	b := newBehavior([]*request{c1.newRequest(), c2.newRequest(), c3.newRequest(), c4.newRequest()}, func() {
		f(&c1.c.value, &c2.c.value, &c3.c.value, &c4.c.value)
	})
	b.schedule()
}

// RunN is Run2 generalized to a homogeneously typed slice of cowns. f
// receives the values in the same order as cowns.
func RunN[T any](cowns []*CownPtr[T], f func(values []*T)) {
	requests := make([]*request, len(cowns))
	for i, c := range cowns {
		requests[i] = c.newRequest()
	}
	b := newBehavior(requests, func() {
		values := make([]*T, len(cowns))
		for i, c := range cowns {
			values[i] = &c.c.value
		}
		f(values)
	})
	b.schedule()
}

// Terminator blocks the calling goroutine until every previously
// scheduled behavior over cowns has completed: it schedules one more,
// trivial behavior over the same cowns and waits for that to run. Since
// 2PL serializes behaviors sharing a cown, this one cannot run until
// everything queued ahead of it on every one of cowns has released.
func Terminator(cowns ...anyCown) {
	done := make(chan struct{})
	requests := make([]*request, len(cowns))
	for i, c := range cowns {
		requests[i] = c.newRequest()
	}
	b := newBehavior(requests, func() { close(done) })
	b.schedule()
	<-done
}
