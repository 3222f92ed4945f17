package hazard

import (
	"unsafe"

	"github.com/dijkstracula/go-concur/internal/taggedptr"
)

// Shield is ownership of one hazard slot: while a pointer is set in a
// Shield, a Retirees.Collect pass anywhere in the process will not free it.
//
// A Shield must be released with Close once the caller is done
// dereferencing the pointer it protects; Go has no destructor to fall
// back on, so forgetting to call Close leaks the slot (it stays active
// and "protects" a stale pointer forever) rather than corrupting
// memory, but it is still a bug the caller owns.
type Shield struct {
	bag  *HazardBag
	slot *slot
}

// newShield acquires a slot from bag. Exported constructors go through
// HazardBag.Shield and DefaultShield instead of this directly.
func newShield(bag *HazardBag) *Shield {
	return &Shield{bag: bag, slot: bag.acquireSlot()}
}

// DefaultShield mints a Shield backed by the package's DefaultBag.
func DefaultShield() *Shield {
	return newShield(DefaultBag())
}

// Set announces pointer as hazardous.
func (s *Shield) Set(pointer unsafe.Pointer) {
	s.slot.hazard.Store(uintptr(pointer))
}

// Clear retracts the announcement, equivalent to Set(nil).
func (s *Shield) Clear() {
	s.slot.hazard.Store(0)
}

// Close releases the shield's slot back to its bag for recycling. The
// Shield must not be used afterwards.
func (s *Shield) Close() {
	s.slot.release()
}

// Validate reports whether src still holds pointer (ignoring src's tag
// bits). If "src still points to pointer" implies pointer has not been
// retired, a true result means any Shield set to pointer is validated: the
// pointer cannot be freed out from under the reader until the reader
// observes a different value from src.
func Validate[T any](pointer *T, src *taggedptr.Atomic[T]) (*T, bool) {
	cur, _ := src.Load()
	if cur != pointer {
		return cur, false
	}
	return nil, true
}

// TryProtect announces pointer in s, then validates it against src. On
// failure the shield is cleared and the current value of src is returned.
// Go methods cannot carry their own type parameters, so this is a free
// function taking the Shield explicitly rather than a method on it.
func TryProtect[T any](s *Shield, pointer *T, src *taggedptr.Atomic[T]) (*T, bool) {
	s.Set(unsafe.Pointer(pointer))
	cur, valid := Validate(pointer, src)
	if !valid {
		s.Clear()
		return cur, false
	}
	return pointer, true
}

// Protect loads src, sets up a Shield over the observed pointer, and
// retries until the shield's protection is validated, returning the
// protected pointer.
func Protect[T any](s *Shield, src *taggedptr.Atomic[T]) *T {
	pointer, _ := src.Load()
	for {
		protected, ok := TryProtect(s, pointer, src)
		if ok {
			return protected
		}
		pointer = protected
	}
}
