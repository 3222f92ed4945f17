package lockfree

import (
	"unsafe"

	"github.com/dijkstracula/go-concur/hazard"
	"github.com/dijkstracula/go-concur/internal/taggedptr"
)

// queueNode is a Michael-Scott queue cell. The sentinel node at the front of
// the queue never carries a value (has is false for it); ref exists only to
// satisfy taggedptr.AlignmentInvariant.
type queueNode[T any] struct {
	next  taggedptr.Atomic[queueNode[T]]
	ref   unsafe.Pointer
	value T
	has   bool
}

// Queue is the Michael-Scott lock-free queue: a singly linked list with a
// sentinel node at the front, usable with any number of producers and
// consumers. tail may lag the true end of the list; Push and TryPop help it
// catch up as they go.
//
// Michael and Scott. Simple, Fast, and Practical Non-Blocking and Blocking
// Concurrent Queue Algorithms. PODC 1996.
type Queue[T any] struct {
	head taggedptr.Atomic[queueNode[T]]
	tail taggedptr.Atomic[queueNode[T]]
}

// NewQueue returns a new, empty queue.
func NewQueue[T any]() *Queue[T] {
	sentinel := &queueNode[T]{}
	q := &Queue[T]{}
	q.head.Store(sentinel, 0)
	q.tail.Store(sentinel, 0)
	return q
}

// Push adds t to the back of the queue.
func (q *Queue[T]) Push(t T, retirees *hazard.Retirees) {
	n := &queueNode[T]{value: t, has: true}
	shield := retirees.Shield()
	defer shield.Close()

	for {
		tail, _ := q.tail.Load()
		if _, ok := hazard.TryProtect(shield, tail, &q.tail); !ok {
			continue
		}
		next, _ := tail.next.Load()
		if next != nil {
			// tail is stale; help move it forward and retry.
			q.tail.CompareAndSwap(tail, 0, next, 0)
			continue
		}
		if tail.next.CompareAndSwap(nil, 0, n, 0) {
			q.tail.CompareAndSwap(tail, 0, n, 0)
			return
		}
	}
}

// TryPop removes and returns the value at the front of the queue, or (zero,
// false) if the queue was observed empty.
func (q *Queue[T]) TryPop(retirees *hazard.Retirees) (T, bool) {
	shield := retirees.Shield()
	defer shield.Close()

	for {
		head, _ := q.head.Load()
		if _, ok := hazard.TryProtect(shield, head, &q.head); !ok {
			continue
		}
		next, _ := head.next.Load()
		if next == nil {
			var zero T
			return zero, false
		}

		// tail == head implies the writes that linked this node are
		// already visible; Go's atomics carry no separate memory-order
		// knobs, so a plain atomic load suffices.
		tail, _ := q.tail.Load()
		if tail == head {
			q.tail.CompareAndSwap(tail, 0, next, 0)
		}

		if q.head.CompareAndSwap(head, 0, next, 0) {
			value := next.value
			retirees.Retire(unsafe.Pointer(head), func(unsafe.Pointer) {})
			return value, true
		}
	}
}

// IsEmpty reports whether the queue currently has no elements.
func (q *Queue[T]) IsEmpty() bool {
	head, _ := q.head.Load()
	next, _ := head.next.Load()
	return next == nil
}
