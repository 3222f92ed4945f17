package helloserver

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool is a bounded worker pool: Execute never runs more than size
// submitted functions at once, blocking the submitter once that bound is
// reached, and Wait blocks until every submitted function (including ones
// Execute itself went on to submit, for callers that nest) has returned.
// It is built from golang.org/x/sync's semaphore and errgroup rather
// than a hand-rolled channel-of-jobs worker pool.
type Pool struct {
	sem *semaphore.Weighted
	g   *errgroup.Group
	ctx context.Context
}

// NewPool returns a Pool that runs at most size functions concurrently.
func NewPool(size int64) *Pool {
	return &Pool{
		sem: semaphore.NewWeighted(size),
		g:   new(errgroup.Group),
		ctx: context.Background(),
	}
}

// Execute submits fn to the pool, blocking until a slot is free.
func (p *Pool) Execute(fn func() error) {
	if err := p.sem.Acquire(p.ctx, 1); err != nil {
		// ctx is context.Background, which never cancels.
		panic(err)
	}
	p.g.Go(func() error {
		defer p.sem.Release(1)
		return fn()
	})
}

// Wait blocks until every function submitted to the pool has returned,
// returning the first non-nil error any of them reported.
func (p *Pool) Wait() error {
	return p.g.Wait()
}
