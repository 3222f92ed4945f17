package taggedptr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type node struct {
	next *node
	val  int
}

func TestComposeDecompose(t *testing.T) {
	n := &node{val: 42}
	word := Compose(unsafe.Pointer(n), 1)
	ptr, tag := Decompose(word)
	assert.Equal(t, uint8(1), tag)
	assert.Equal(t, unsafe.Pointer(n), ptr)
}

func TestWithTagPreservesPointer(t *testing.T) {
	n := &node{val: 7}
	word := Compose(unsafe.Pointer(n), 0)
	word = WithTag(word, 3)
	assert.Equal(t, uint8(3), Tag(word))
	ptr, _ := Decompose(word)
	assert.Equal(t, unsafe.Pointer(n), ptr)
}

func TestAtomicLoadStore(t *testing.T) {
	var a Atomic[node]
	n := &node{val: 1}
	a.Store(n, 0)
	got, tag := a.Load()
	assert.Equal(t, n, got)
	assert.Equal(t, uint8(0), tag)
}

func TestAtomicCompareAndSwap(t *testing.T) {
	var a Atomic[node]
	n1 := &node{val: 1}
	n2 := &node{val: 2}
	a.Store(n1, 0)

	assert.False(t, a.CompareAndSwap(n2, 0, n2, 0))
	assert.True(t, a.CompareAndSwap(n1, 0, n2, 0))
	got, _ := a.Load()
	assert.Equal(t, n2, got)
}

func TestFetchOrTagMarksOnce(t *testing.T) {
	var a Atomic[node]
	n := &node{val: 1}
	a.Store(n, 0)

	old, oldTag := a.FetchOrTag(1)
	assert.Equal(t, n, old)
	assert.Equal(t, uint8(0), oldTag)

	_, tag := a.Load()
	assert.Equal(t, uint8(1), tag)

	// Marking again is idempotent and still reports the mark as already set.
	_, oldTag2 := a.FetchOrTag(1)
	assert.Equal(t, uint8(1), oldTag2)
}
