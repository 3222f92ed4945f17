package lockfree

import (
	"unsafe"

	"github.com/dijkstracula/go-concur/internal/taggedptr"
)

// markTag is the single bit a node's own next pointer carries once it has
// been logically deleted: set before any physical unlink is attempted, so a
// concurrent inserter never links a new node after one that is already
// being removed.
const markTag uint8 = 1

// node is a list cell. ref exists solely to give the type a pointer-shaped
// field, satisfying taggedptr.AlignmentInvariant for every *node[K, V] ever
// handed to next; it is otherwise unused.
type node[K any, V any] struct {
	next  taggedptr.Atomic[node[K, V]]
	ref   unsafe.Pointer
	key   K
	value V
}

func newNode[K any, V any](key K, value V) *node[K, V] {
	return &node[K, V]{key: key, value: value}
}
