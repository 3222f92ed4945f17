package lock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A parked waiter must not consume CPU spinning, but it must still wake
// promptly once the holder releases.
func TestMCSParkingLockParksUntilRelease(t *testing.T) {
	l := NewMCSParkingLock()
	tok := l.Lock()

	var acquired atomic.Bool
	go func() {
		t2 := l.Lock()
		acquired.Store(true)
		l.Unlock(t2)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, acquired.Load(), "waiter must stay parked while the lock is held")

	l.Unlock(tok)
	assert.Eventually(t, acquired.Load, time.Second, time.Millisecond,
		"waiter must be unparked by the release")
}

func TestMCSParkingLockHandsOffInQueueOrder(t *testing.T) {
	l := NewMCSParkingLock()
	tok := l.Lock()

	const waiters = 8
	order := make(chan int, waiters)
	ready := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		i := i
		go func() {
			ready <- struct{}{}
			t2 := l.Lock()
			order <- i
			l.Unlock(t2)
		}()
		<-ready
		// Give goroutine i a moment to reach the queue before the next
		// one starts, so the expected handoff order is deterministic.
		time.Sleep(10 * time.Millisecond)
	}

	l.Unlock(tok)
	for i := 0; i < waiters; i++ {
		assert.Equal(t, i, <-order, "queue lock must hand off FIFO")
	}
}
