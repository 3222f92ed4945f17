package boc

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// poolWeight bounds how many behavior thunks may run concurrently. It
// is sized off GOMAXPROCS rather than a fixed constant so the runtime
// scales with the machine it's running on, the way a work-stealing
// thread pool would.
var poolWeight = int64(4 * runtime.GOMAXPROCS(0))

var (
	poolOnce sync.Once
	poolSem  *semaphore.Weighted
)

// pool lazily initializes the process-lifetime worker pool. There is
// deliberately no teardown: like the hazard domain, this is a
// process-lifetime singleton accessed through a well-defined accessor.
func pool() *semaphore.Weighted {
	poolOnce.Do(func() {
		poolSem = semaphore.NewWeighted(poolWeight)
	})
	return poolSem
}

// dispatch runs a behavior's thunk on the worker pool once every cown
// it needs has granted access, then releases those cowns to whoever is
// queued up behind it. The semaphore acquire blocks the dispatching
// goroutine, not the caller of resolveOne/schedule, so a long-running
// thunk throttles new dispatches without ever blocking the 2PL
// protocol itself.
func dispatch(b *behavior) {
	go func() {
		sem := pool()
		ctx := context.Background()
		if err := sem.Acquire(ctx, 1); err != nil {
			// context.Background() never cancels; Acquire only errors if
			// weight exceeds the semaphore's total capacity.
			panic(err)
		}
		defer sem.Release(1)

		b.thunk()
		b.release()
	}()
}
