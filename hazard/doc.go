// Package hazard implements hazard-pointer safe memory reclamation: readers
// publish the pointers they are about to dereference in a process-wide bag
// of slots, and a reclamation pass only frees a retired pointer once no
// published slot still protects it.
//
// There is no implicit per-goroutine state. Every operation that needs to
// retire or collect takes an explicit *Retirees: Go has no goroutine-local
// storage, so the retiree list is an ordinary value the caller owns, the
// way a context.Context or a database session handle is. Callers typically
// keep one *Retirees per goroutine (or pull one from DefaultBag via
// NewRetirees once at goroutine start) rather than reconstructing it per
// call, so collection stays amortized over many retires.
package hazard
