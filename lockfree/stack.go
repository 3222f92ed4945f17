package lockfree

import (
	"unsafe"

	"github.com/dijkstracula/go-concur/hazard"
	"github.com/dijkstracula/go-concur/internal/taggedptr"
)

// stackNode is a Treiber stack cell. ref exists only to satisfy
// taggedptr.AlignmentInvariant; see node's comment in node.go.
type stackNode[T any] struct {
	next  taggedptr.Atomic[stackNode[T]]
	ref   unsafe.Pointer
	value T
}

// Stack is Treiber's lock-free stack: usable with any number of concurrent
// pushers and poppers.
type Stack[T any] struct {
	head taggedptr.Atomic[stackNode[T]]
}

// NewStack returns a new, empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push places t on top of the stack.
func (s *Stack[T]) Push(t T) {
	n := &stackNode[T]{value: t}
	for {
		head, _ := s.head.Load()
		n.next.Store(head, 0)
		if s.head.CompareAndSwap(head, 0, n, 0) {
			return
		}
	}
}

// Pop removes and returns the top element, or (zero, false) if the stack
// was observed empty.
func (s *Stack[T]) Pop(retirees *hazard.Retirees) (T, bool) {
	shield := retirees.Shield()
	defer shield.Close()

	for {
		head, _ := s.head.Load()
		if head == nil {
			var zero T
			return zero, false
		}
		if _, ok := hazard.TryProtect(shield, head, &s.head); !ok {
			continue
		}
		next, _ := head.next.Load()
		if s.head.CompareAndSwap(head, 0, next, 0) {
			value := head.value
			retirees.Retire(unsafe.Pointer(head), func(unsafe.Pointer) {})
			return value, true
		}
	}
}

// IsEmpty reports whether the stack currently has no elements.
func (s *Stack[T]) IsEmpty() bool {
	head, _ := s.head.Load()
	return head == nil
}
