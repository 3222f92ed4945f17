package lock

import (
	"runtime"
	"sync/atomic"
)

// rawSeqLock is the bare sequence counter beneath SeqLock[T]: even values
// mean unlocked, odd values mean a writer is in progress, and a reader
// validates by checking the counter hasn't changed across its critical
// section.
type rawSeqLock struct {
	seq atomic.Uint64
}

func (l *rawSeqLock) writeLock() uint64 {
	var b backoff
	for {
		seq := l.seq.Load()
		if seq&1 == 0 && l.seq.CompareAndSwap(seq, seq+1) {
			return seq
		}
		b.snooze()
	}
}

func (l *rawSeqLock) writeUnlock(seq uint64) {
	l.seq.Store(seq + 2)
}

func (l *rawSeqLock) readBegin() uint64 {
	var b backoff
	for {
		seq := l.seq.Load()
		if seq&1 == 0 {
			return seq
		}
		b.snooze()
	}
}

func (l *rawSeqLock) readValidate(seq uint64) bool {
	return seq == l.seq.Load()
}

func (l *rawSeqLock) upgrade(seq uint64) bool {
	return l.seq.CompareAndSwap(seq, seq+1)
}

// SeqLock is a sequence lock: a single writer at a time, but readers
// never block a writer and never block each other — a reader instead
// detects, after the fact, whether a concurrent write invalidated what it
// read and must retry. This is the right tool when reads vastly
// outnumber writes and reads are cheap to redo (it is not suitable for
// data a torn read could corrupt the invariants of, since validation only
// happens at the very end of the critical section).
type SeqLock[T any] struct {
	lock rawSeqLock
	data T
}

// NewSeqLock wraps data behind a fresh sequence lock.
func NewSeqLock[T any](data T) *SeqLock[T] {
	return &SeqLock[T]{data: data}
}

// WriteLock blocks until no writer or validating reader interferes, and
// returns a guard with exclusive write access.
func (l *SeqLock[T]) WriteLock() *WriteGuard[T] {
	seq := l.lock.writeLock()
	return &WriteGuard[T]{lock: l, seq: seq}
}

// ReadLock returns a guard over a best-effort snapshot: the caller must
// call Validate (or Finish) before trusting anything it read, since a
// concurrent writer may have torn the read.
//
// Every load the caller performs through the returned guard must be
// atomic — this type enforces no synchronization of its own during the
// read; the guard's only job is detecting, after the fact, that a
// writer raced it.
func (l *SeqLock[T]) ReadLock() *ReadGuard[T] {
	g := &ReadGuard[T]{lock: l, seq: l.lock.readBegin()}
	runtime.SetFinalizer(g, func(*ReadGuard[T]) {
		panic("seqlock: ReadGuard dropped without Finish or Upgrade")
	})
	return g
}

// Read runs f against a validated snapshot of the data, retrying until a
// write does not race with it. The retry loops internally so callers
// don't have to hand-roll it themselves; pass a pure, idempotent f.
func (l *SeqLock[T]) Read(f func(*T)) {
	for {
		g := l.ReadLock()
		f(&g.lock.data)
		if g.Finish() {
			return
		}
	}
}

// WriteGuard grants exclusive write access obtained from SeqLock.WriteLock.
type WriteGuard[T any] struct {
	lock *SeqLock[T]
	seq  uint64
	done bool
}

// Get returns the protected value.
func (g *WriteGuard[T]) Get() *T {
	return &g.lock.data
}

// Unlock releases the write lock, publishing any writes made through Get.
func (g *WriteGuard[T]) Unlock() {
	if g.done {
		panic("seqlock: WriteGuard.Unlock called twice")
	}
	g.done = true
	g.lock.lock.writeUnlock(g.seq)
}

// ReadGuard is a provisional read snapshot obtained from SeqLock.ReadLock.
// It must be explicitly consumed with Finish or Upgrade: everything read
// through Get is unvalidated until then, so a guard that is simply
// abandoned represents a read the caller never checked. Validation is
// mandatory, not advisory — an unconsumed guard carries a finalizer that
// panics when the guard is collected, turning the silent drop into a
// crash instead of a wrong answer.
type ReadGuard[T any] struct {
	lock *SeqLock[T]
	seq  uint64
	done bool
}

// Get returns the (possibly torn, not yet validated) protected value.
func (g *ReadGuard[T]) Get() *T {
	return &g.lock.data
}

// Validate reports whether the data read so far is consistent with a
// single atomic snapshot, without consuming the guard.
func (g *ReadGuard[T]) Validate() bool {
	return g.lock.lock.readValidate(g.seq)
}

// Restart re-synchronizes the guard to the current sequence number after
// a failed Validate, so the caller can retry its read in place.
func (g *ReadGuard[T]) Restart() {
	g.seq = g.lock.lock.readBegin()
}

// Finish validates and consumes the guard, reporting whether the read
// that preceded it was consistent.
func (g *ReadGuard[T]) Finish() bool {
	if g.done {
		panic("seqlock: ReadGuard.Finish called twice")
	}
	g.done = true
	runtime.SetFinalizer(g, nil)
	return g.lock.lock.readValidate(g.seq)
}

// Upgrade attempts to convert this read critical section directly into a
// write critical section without an intervening unlock, succeeding only
// if no writer has intervened since ReadLock. On success the ReadGuard is
// consumed and a WriteGuard is returned; on failure the ReadGuard is
// consumed and the caller must ReadLock again.
func (g *ReadGuard[T]) Upgrade() (*WriteGuard[T], bool) {
	if g.done {
		panic("seqlock: ReadGuard.Upgrade called after Finish")
	}
	g.done = true
	runtime.SetFinalizer(g, nil)
	if !g.lock.lock.upgrade(g.seq) {
		return nil, false
	}
	return &WriteGuard[T]{lock: g.lock, seq: g.seq}, true
}
