package lock

import "sync/atomic"

// TicketLock hands out tickets in arrival order and serves them in that
// order, giving FIFO fairness that SpinLock lacks.
type TicketLock struct {
	curr atomic.Uint64
	next atomic.Uint64
}

var _ RawLock[uint64] = (*TicketLock)(nil)

// NewTicketLock returns an unlocked TicketLock.
func NewTicketLock() *TicketLock {
	return &TicketLock{}
}

// Lock implements RawLock. The token is the caller's ticket number.
func (l *TicketLock) Lock() uint64 {
	ticket := l.next.Add(1) - 1
	var b backoff
	for l.curr.Load() != ticket {
		b.snooze()
	}
	return ticket
}

// Unlock implements RawLock.
func (l *TicketLock) Unlock(ticket uint64) {
	l.curr.Store(ticket + 1)
}
