package hazard

import (
	"sync/atomic"
)

// slot is one element of a grow-only, singly-linked list of hazard
// announcements. Slots are never freed or unlinked once linked into a
// HazardBag; a retired slot is deactivated and recycled for a future
// Shield instead, which is why HazardBag.head/slot.next never need a
// hazard-pointer scheme of their own.
type slot struct {
	active atomic.Bool
	hazard atomic.Uintptr // raw pointer value (no tag bits) currently announced, or 0
	next   *slot
}

// HazardBag is the process-wide (or, for tests, per-instance) multiset of
// announced hazard pointers. Readers acquire a Shield backed by a slot in
// the bag; a Retirees list consults AllHazards before freeing a retired
// object.
type HazardBag struct {
	head atomic.Pointer[slot]
}

// NewHazardBag returns an empty bag.
func NewHazardBag() *HazardBag {
	return &HazardBag{}
}

// Shield mints a new Shield backed by a slot from this bag, acquiring an
// inactive slot if one is available or else growing the list by one.
func (b *HazardBag) Shield() *Shield {
	return &Shield{bag: b, slot: b.acquireSlot()}
}

// acquireSlot recycles an inactive slot if one exists; otherwise it
// allocates a fresh slot and links it onto the head of the list.
func (b *HazardBag) acquireSlot() *slot {
	if s := b.tryAcquireInactive(); s != nil {
		return s
	}

	s := &slot{}
	s.active.Store(true)
	for {
		head := b.head.Load()
		s.next = head
		if b.head.CompareAndSwap(head, s) {
			return s
		}
	}
}

// tryAcquireInactive walks the list looking for a deactivated slot and
// claims the first one it finds with a CAS on `active`.
func (b *HazardBag) tryAcquireInactive() *slot {
	for s := b.head.Load(); s != nil; s = s.next {
		if s.active.Load() {
			continue
		}
		if s.active.CompareAndSwap(false, true) {
			s.hazard.Store(0)
			return s
		}
	}
	return nil
}

// AllHazards returns the set of raw pointer values currently announced by
// any active slot in the bag. A Retirees pass must not free any retired
// pointer whose raw address appears in this set.
func (b *HazardBag) AllHazards() map[uintptr]struct{} {
	hazards := make(map[uintptr]struct{})
	for s := b.head.Load(); s != nil; s = s.next {
		if !s.active.Load() {
			continue
		}
		if h := s.hazard.Load(); h != 0 {
			hazards[h] = struct{}{}
		}
	}
	return hazards
}

// release deactivates the slot, making it available to a future
// acquireSlot call.
func (s *slot) release() {
	s.hazard.Store(0)
	s.active.Store(false)
}
