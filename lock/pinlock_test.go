package lock

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPinLockStatePacking(t *testing.T) {
	var state uint64
	assert.EqualValues(t, 0, plPins(state))
	assert.False(t, plClaimed(state))

	state += plPinOne
	state += plPinOne
	assert.EqualValues(t, 2, plPins(state))
	assert.False(t, plClaimed(state))

	state |= plClaim
	assert.EqualValues(t, 2, plPins(state))
	assert.True(t, plClaimed(state))

	state -= plPinOne
	state -= plPinOne
	assert.EqualValues(t, 0, plPins(state))
	assert.True(t, plClaimed(state))
}

func TestPinLockPinsAreConcurrent(t *testing.T) {
	l := NewPinLock()
	l.Pin()
	l.Pin() // must not block on the first pin
	assert.EqualValues(t, 2, plPins(atomic.LoadUint64(&l.state)))
	l.Unpin()
	l.Unpin()
	assert.EqualValues(t, 0, atomic.LoadUint64(&l.state))
}

func TestPinLockExclusiveWaitsForPins(t *testing.T) {
	l := NewPinLock()
	l.Pin()

	var locked atomic.Bool
	go func() {
		l.Lock()
		locked.Store(true)
		l.Unlock()
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, locked.Load(), "Lock must wait out the granted pin")

	l.Unpin()
	assert.Eventually(t, locked.Load, time.Second, time.Millisecond)
}

func TestPinLockPinWaitsForExclusive(t *testing.T) {
	l := NewPinLock()
	l.Lock()

	var pinned atomic.Bool
	go func() {
		l.Pin()
		pinned.Store(true)
		l.Unpin()
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, pinned.Load(), "Pin must wait out the exclusive holder")

	l.Unlock()
	assert.Eventually(t, pinned.Load, time.Second, time.Millisecond)
}

// A claimant that is still waiting out old pins must already turn new
// pins away, or a steady stream of pinners could starve it forever.
func TestPinLockClaimTurnsAwayNewPins(t *testing.T) {
	l := NewPinLock()
	l.Pin()

	var locked atomic.Bool
	go func() {
		l.Lock()
		locked.Store(true)
		l.Unlock()
	}()
	assert.Eventually(t, func() bool {
		return plClaimed(atomic.LoadUint64(&l.state))
	}, time.Second, time.Millisecond, "claim must be published before the pin drains")

	var latePinned atomic.Bool
	go func() {
		l.Pin()
		latePinned.Store(true)
		l.Unpin()
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, latePinned.Load(), "a new pin must not slip in ahead of the claimant")
	assert.False(t, locked.Load())

	l.Unpin()
	assert.Eventually(t, locked.Load, time.Second, time.Millisecond)
	assert.Eventually(t, latePinned.Load, time.Second, time.Millisecond)
}

// benchmarkPinLocking simulates the lock's intended shape: many workers
// pinning the root to bump their own slot (each slot standing in for a
// part with its own finer lock), an occasional bulk pass owning the
// whole array exclusively. The bulk pass snapshots the slots; since it
// excludes every pinner, each snapshot's sum must equal the total number
// of increments granted so far, which every bulk pass checks for itself;
// at the end the caller checks that the lock's state word is back to zero.
func benchmarkPinLocking(b *testing.B, workers int, lockPerc int) {
	l := NewPinLock()
	var slots [16]atomic.Uint64
	var granted atomic.Uint64

	var wg sync.WaitGroup
	each := b.N/workers + 1
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < each; i++ {
				if r.Intn(100) < lockPerc {
					l.Lock()
					var sum uint64
					for j := range slots {
						sum += slots[j].Load()
					}
					if sum != granted.Load() {
						panic("bulk pass observed a torn slot array")
					}
					l.Unlock()
					continue
				}
				l.Pin()
				granted.Add(1)
				slots[r.Intn(len(slots))].Add(1)
				l.Unpin()
			}
		}()
	}
	wg.Wait()

	if state := atomic.LoadUint64(&l.state); state != 0 {
		b.Fatalf("lock not quiescent after benchmark: %#x", state)
	}
}

func BenchmarkPinLockSerial(b *testing.B) { benchmarkPinLocking(b, 1, 10) }
func BenchmarkPinLockLowConcurrency(b *testing.B) { benchmarkPinLocking(b, 2, 10) }
func BenchmarkPinLockMediumConcurrency(b *testing.B) { benchmarkPinLocking(b, 10, 10) }
func BenchmarkPinLockHighConcurrency(b *testing.B) { benchmarkPinLocking(b, 20, 10) }
func BenchmarkPinLockHeavyExclusive(b *testing.B) { benchmarkPinLocking(b, 10, 50) }
func BenchmarkPinLockHighHeavyExclusive(b *testing.B) { benchmarkPinLocking(b, 20, 50) }
