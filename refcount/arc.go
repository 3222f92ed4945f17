// Package refcount implements Arc[T], an atomically reference-counted
// shared pointer.
package refcount

import (
	"math"
	"sync/atomic"
)

// maxRefcount plays the role of Rust Arc's MAX_REFCOUNT (isize::MAX
// against a usize counter): Clone panics once the count exceeds it.
// Capping at half the counter's range means the increment that crosses
// the cap cannot itself wrap the counter, so the check still sees a
// too-large positive value rather than a wrapped negative one.
const maxRefcount = math.MaxInt64 >> 1

type arcInner[T any] struct {
	count atomic.Int64
	data  T
}

// Arc is a thread-safe reference-counted pointer to a heap-allocated T.
// Cloning an Arc shares the same underlying allocation and bumps the
// count; Release drops the count and, once it reaches zero, the last
// holder's reference is the only one left so the Go garbage collector
// reclaims the allocation once it is dropped — there is no explicit free,
// since Go has no manual deallocation, but the refcount accounting and
// uniqueness contracts (GetMut, MakeMut, TryUnwrap) are the same ones
// Rust's std::sync::Arc documents.
//
// The zero Arc[T] is not valid; construct one with New.
type Arc[T any] struct {
	inner *arcInner[T]
}

// New allocates data on the heap and returns an Arc with a reference
// count of 1.
func New[T any](data T) Arc[T] {
	inner := &arcInner[T]{data: data}
	inner.count.Store(1)
	return Arc[T]{inner: inner}
}

// Get dereferences the Arc.
func (a Arc[T]) Get() *T {
	return &a.inner.data
}

// Clone returns a new Arc sharing the same allocation, incrementing the
// reference count. Panics if doing so would push the count past
// maxRefcount: a wrapped count would free live data, so overflow is
// fatal rather than recoverable.
func (a Arc[T]) Clone() Arc[T] {
	n := a.inner.count.Add(1)
	if n > maxRefcount {
		panic("refcount: Arc reference count overflow")
	}
	return Arc[T]{inner: a.inner}
}

// Release decrements the reference count. Once the zeroth reference is
// released, the data becomes unreachable through this package and is
// eligible for garbage collection; this is the explicit stand-in for the
// source's implicit Drop.
//
// Calling Release more than once per Clone/New is a programming error;
// Go has no destructor to enforce exactly-once release, so underflow is
// caught here rather than silently corrupting accounting.
func (a Arc[T]) Release() {
	n := a.inner.count.Add(-1)
	if n < 0 {
		panic("refcount: Arc released more times than it was cloned")
	}
}

// Count returns the number of Arc handles to this allocation. As in the
// source, another goroutine may change the count concurrently; the
// result is a snapshot, not a guarantee.
func (a Arc[T]) Count() int64 {
	return a.inner.count.Load()
}

// PtrEq reports whether a and b point to the same allocation.
func PtrEq[T any](a, b Arc[T]) bool {
	return a.inner == b.inner
}

// isUnique reports whether this Arc is the only handle to its allocation.
func (a Arc[T]) isUnique() bool {
	return a.inner.count.Load() == 1
}

// GetMut returns a mutable pointer to the data if this Arc is the unique
// reference to its allocation, or (nil, false) otherwise.
func (a Arc[T]) GetMut() (*T, bool) {
	if !a.isUnique() {
		return nil, false
	}
	return &a.inner.data, true
}

// GetMutUnchecked returns a mutable pointer to the data without checking
// uniqueness.
//
// Any other Arc sharing this allocation must not be dereferenced for the
// duration of the returned pointer's use: the call is only sound if it
// happens-after every other Arc to the same allocation has stopped being
// read.
func (a Arc[T]) GetMutUnchecked() *T {
	return &a.inner.data
}

// TryUnwrap returns the inner value if this Arc is the unique reference
// to it, consuming the Arc. Otherwise it returns the zero value and
// false, leaving the Arc's reference count untouched (the caller still
// holds a live reference and remains responsible for eventually calling
// Release).
func (a Arc[T]) TryUnwrap() (T, bool) {
	// CAS rather than a load-then-check: two goroutines racing TryUnwrap
	// on aliased handles must not both succeed.
	if !a.inner.count.CompareAndSwap(1, 0) {
		var zero T
		return zero, false
	}
	return a.inner.data, true
}

// MakeMut returns a mutable pointer to a's data, cloning the underlying
// value into a fresh, uniquely-owned allocation first if any other Arc
// shares it (copy-on-write). clone must return a deep-enough copy of v
// that mutating the result does not affect v.
//
// Go generics have no Clone-trait constraint, so the cloning function
// is supplied explicitly.
func MakeMut[T any](a *Arc[T], clone func(T) T) *T {
	if a.isUnique() {
		return &a.inner.data
	}
	next := New(clone(a.inner.data))
	a.Release()
	*a = next
	return &a.inner.data
}
