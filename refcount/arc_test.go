package refcount

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManuallyShareArc(t *testing.T) {
	v := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	arcV := New(v)

	ch := make(chan Arc[[]int])
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		got := <-ch
		assert.Equal(t, 4, (*got.Get())[3])
	}()

	ch <- arcV.Clone()
	wg.Wait()

	assert.Equal(t, 3, (*arcV.Get())[2])
	assert.Equal(t, 5, (*arcV.Get())[4])
}

func TestCowArcCloneMakeMut(t *testing.T) {
	cow0 := New(75)
	cow1 := cow0.Clone()
	cow2 := cow1.Clone()

	assert.Equal(t, 75, *MakeMut(&cow0, func(v int) int { return v }))
	assert.Equal(t, 75, *MakeMut(&cow1, func(v int) int { return v }))
	assert.Equal(t, 75, *MakeMut(&cow2, func(v int) int { return v }))

	*MakeMut(&cow0, func(v int) int { return v }) += 1
	*MakeMut(&cow1, func(v int) int { return v }) += 2
	*MakeMut(&cow2, func(v int) int { return v }) += 3

	assert.Equal(t, 76, *cow0.Get())
	assert.Equal(t, 77, *cow1.Get())
	assert.Equal(t, 78, *cow2.Get())

	assert.NotEqual(t, *cow0.Get(), *cow1.Get())
	assert.NotEqual(t, *cow0.Get(), *cow2.Get())
	assert.NotEqual(t, *cow1.Get(), *cow2.Get())
}

func TestCowArcCloneUnique(t *testing.T) {
	cow0 := New(75)
	cow1 := cow0.Clone()
	cow2 := cow1.Clone()

	assert.Equal(t, 75, *cow0.Get())
	assert.Equal(t, 75, *cow1.Get())
	assert.Equal(t, 75, *cow2.Get())

	identity := func(v int) int { return v }
	*MakeMut(&cow0, identity) += 1

	assert.Equal(t, 76, *cow0.Get())
	assert.Equal(t, 75, *cow1.Get())
	assert.Equal(t, 75, *cow2.Get())

	// cow1 and cow2 still share the same allocation; cow0 became unique.
	assert.NotEqual(t, *cow0.Get(), *cow1.Get())
	assert.NotEqual(t, *cow0.Get(), *cow2.Get())
	assert.True(t, PtrEq(cow1, cow2))
	assert.False(t, PtrEq(cow0, cow1))
}

func TestDropArc(t *testing.T) {
	var canary atomic.Int64
	x := New(&canary)
	y := x.Clone()

	x.Release()
	assert.Equal(t, int64(0), canary.Load())
	y.Release()

	// Releasing the last handle doesn't run a destructor in Go (the GC
	// reclaims the allocation once unreachable) but the count must reach
	// zero exactly once both handles are released.
	assert.Equal(t, int64(0), x.Count())
}

func TestCount(t *testing.T) {
	a := New(0)
	assert.Equal(t, int64(1), a.Count())
	b := a.Clone()
	assert.Equal(t, int64(2), a.Count())
	assert.Equal(t, int64(2), b.Count())
}

func TestPtrEq(t *testing.T) {
	five := New(5)
	sameFive := five.Clone()
	otherFive := New(5)

	assert.True(t, PtrEq(five, sameFive))
	assert.False(t, PtrEq(five, otherFive))
}

func TestArcStress(t *testing.T) {
	const threads = 8
	const iterPerThread = 128

	count := New(new(atomic.Int64))
	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		c := count.Clone()
		go func() {
			defer wg.Done()
			for j := 0; j < iterPerThread; j++ {
				(*c.Get()).Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(threads*iterPerThread), (*count.Get()).Load())
}

func TestTryUnwrap(t *testing.T) {
	a := New(3)
	v, ok := a.TryUnwrap()
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	b := New(4)
	c := b.Clone()
	_, ok = b.TryUnwrap()
	assert.False(t, ok)
	c.Release()
}

func TestGetMut(t *testing.T) {
	a := New(3)
	p, ok := a.GetMut()
	assert.True(t, ok)
	*p = 4
	assert.Equal(t, 4, *a.Get())

	b := a.Clone()
	_, ok = a.GetMut()
	assert.False(t, ok)
	b.Release()

	_, ok = a.GetMut()
	assert.True(t, ok)
}

func TestCloneOverflowPanics(t *testing.T) {
	a := New(0)
	a.inner.count.Store(maxRefcount)
	assert.Panics(t, func() { a.Clone() })
}
