package dlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushPopFrontBack(t *testing.T) {
	l := New[int]()
	assert.True(t, l.IsEmpty())

	l.PushFront(2)
	l.PushFront(1)
	l.PushBack(3)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []int{1, 2, 3}, l.ToSlice())

	v, ok := l.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = l.PopBack()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	assert.Equal(t, []int{2}, l.ToSlice())

	_, ok = l.PopBack()
	assert.True(t, ok)
	_, ok = l.PopBack()
	assert.False(t, ok)
	assert.True(t, l.IsEmpty())
}

func TestFrontBack(t *testing.T) {
	l := New[int]()
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())

	l.PushFront(1)
	assert.Equal(t, 1, *l.Front())
	assert.Equal(t, 1, *l.Back())

	*l.Front() = 5
	assert.Equal(t, 5, *l.Front())
}

func TestAppend(t *testing.T) {
	l1 := New[rune]()
	l1.PushBack('a')

	l2 := New[rune]()
	l2.PushBack('b')
	l2.PushBack('c')

	l1.Append(l2)
	assert.Equal(t, []rune{'a', 'b', 'c'}, l1.ToSlice())
	assert.True(t, l2.IsEmpty())
}

func TestAppendOntoEmpty(t *testing.T) {
	l1 := New[int]()
	l2 := New[int]()
	l2.PushBack(1)
	l2.PushBack(2)

	l1.Append(l2)
	assert.Equal(t, []int{1, 2}, l1.ToSlice())
	assert.True(t, l2.IsEmpty())
}

func TestPrepend(t *testing.T) {
	l1 := New[rune]()
	l1.PushBack('a')
	l1.PushBack('b')

	l2 := New[rune]()
	l2.PushBack('c')

	l2.Prepend(l1)
	assert.Equal(t, []rune{'a', 'b', 'c'}, l2.ToSlice())
	assert.True(t, l1.IsEmpty())
}

func TestContains(t *testing.T) {
	l := New[int]()
	l.PushBack(0)
	l.PushBack(1)
	l.PushBack(2)

	eq := func(a, b int) bool { return a == b }
	assert.True(t, l.Contains(0, eq))
	assert.False(t, l.Contains(10, eq))
}

func TestDo(t *testing.T) {
	l := New[int]()
	l.PushBack(0)
	l.PushBack(1)
	l.PushBack(2)

	l.Do(func(x *int) { *x += 10 })
	assert.Equal(t, []int{10, 11, 12}, l.ToSlice())
}

func TestDoReverse(t *testing.T) {
	l := New[int]()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	var got []int
	l.DoReverse(func(x *int) { got = append(got, *x) })
	assert.Equal(t, []int{3, 2, 1}, got)
}

func TestClear(t *testing.T) {
	l := New[int]()
	l.PushFront(2)
	l.PushFront(1)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 1, *l.Front())

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
}
