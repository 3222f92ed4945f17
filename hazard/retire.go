package hazard

import "unsafe"

// retireThreshold is the max length a Retirees list is allowed to grow to
// before Retire forces a Collect pass.
const retireThreshold = 64

type retired struct {
	addr uintptr
	free func(unsafe.Pointer)
}

// Retirees is a caller-owned sequence of retired (logically unlinked but
// not yet freed) pointers, checked against a HazardBag's announcements
// before being freed. Hazard-pointer implementations in other languages
// keep one of these per OS thread in thread-local storage; Go has no
// first-class goroutine-local storage, so this package makes the list an
// explicit value instead, the reclamation guard every lock-free
// operation takes. Callers should hold one Retirees per long-lived
// goroutine (a worker loop, a connection handler) rather than allocate
// one per call, so collection stays amortized over many retires.
type Retirees struct {
	bag   *HazardBag
	items []retired
}

// NewRetirees returns an empty retiree list backed by bag.
func NewRetirees(bag *HazardBag) *Retirees {
	return &Retirees{bag: bag}
}

// Shield mints a Shield from the same bag this Retirees checks against.
func (r *Retirees) Shield() *Shield {
	return r.bag.Shield()
}

// Retire records pointer as logically removed and schedules free to run
// on it once no Shield anywhere protects its address. free is typically
// `func(p unsafe.Pointer) { _ = (*T)(p) }`-shaped, closing over the
// concrete node type so this package stays type-erased.
func (r *Retirees) Retire(pointer unsafe.Pointer, free func(unsafe.Pointer)) {
	r.items = append(r.items, retired{addr: uintptr(pointer), free: free})
	if len(r.items) > retireThreshold {
		r.Collect()
	}
}

// Collect frees every retired pointer not currently announced by any
// active Shield in the bag, and keeps the rest for a later pass.
func (r *Retirees) Collect() {
	if len(r.items) == 0 {
		return
	}
	hazards := r.bag.AllHazards()

	remaining := r.items[:0]
	for _, it := range r.items {
		if _, protected := hazards[it.addr]; protected {
			remaining = append(remaining, it)
			continue
		}
		it.free(unsafe.Pointer(it.addr))
	}
	r.items = remaining
}

// Close drains the retiree list, blocking (by repeated Collect passes)
// until every retired pointer has been freed. The source's equivalent
// Drop impl notes this is a pedagogical stand-in for a production design
// that would hand remaining retirees off to a global list for other
// threads to reclaim; this port keeps the same tradeoff.
func (r *Retirees) Close() {
	for len(r.items) > 0 {
		r.Collect()
	}
}

// Pending reports how many pointers are currently retired but not yet
// freed, for tests that want to assert eventual reclamation.
func (r *Retirees) Pending() int {
	return len(r.items)
}
