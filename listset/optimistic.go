package listset

import "github.com/dijkstracula/go-concur/lock"

// onode is one cell of an OptimisticFineGrainedSet. next is a SeqLock
// rather than a plain pointer: a traversal reads through it optimistically
// and only pays for real synchronization when it actually needs to mutate
// the list. data is immutable once the node is constructed.
type onode[T any] struct {
	data T
	next *lock.SeqLock[*onode[T]]
}

func newONode[T any](data T, next *onode[T]) *onode[T] {
	return &onode[T]{data: data, next: lock.NewSeqLock(next)}
}

// OptimisticFineGrainedSet is a concurrent sorted singly linked set using
// fine-grained optimistic locking: every next pointer, including the
// set's own head, lives behind a lock.SeqLock. Traversals hold open read
// guards hand-over-hand and validate each link before stepping past it;
// mutations upgrade the guard over the link they are about to rewrite,
// and a failed validation or upgrade restarts the whole operation from
// the head rather than trying to patch up a partial cursor.
type OptimisticFineGrainedSet[T any] struct {
	head *lock.SeqLock[*onode[T]]
	less func(a, b T) bool
}

// NewOptimisticFineGrainedSet returns an empty set ordered by less.
func NewOptimisticFineGrainedSet[T any](less func(a, b T) bool) *OptimisticFineGrainedSet[T] {
	return &OptimisticFineGrainedSet[T]{head: lock.NewSeqLock[*onode[T]](nil), less: less}
}

// ocursor is a traversal's position: prev is a still-open read guard over
// the link pointing at curr (the set's head or some node's next field).
// The holder must consume prev with Finish or Upgrade exactly once.
type ocursor[T any] struct {
	prev *lock.ReadGuard[*onode[T]]
	curr *onode[T]
}

// find walks the list hand-over-hand: a guard on the next link is opened
// before the guard on the previous one is validated and released, so
// there is no instant where the walk holds no claim on the chain. It
// returns ok=false (with no guard held) if a validation failed mid-walk;
// the caller restarts. On ok, the cursor's prev guard is open and curr
// is the first node whose data is not less than key (or nil).
func (s *OptimisticFineGrainedSet[T]) find(key T) (ocursor[T], bool, bool) {
	g := s.head.ReadLock()
	curr := *g.Get()

	for curr != nil && s.less(curr.data, key) {
		gn := curr.next.ReadLock()
		next := *gn.Get()
		if !g.Finish() {
			gn.Finish()
			return ocursor[T]{}, false, false
		}
		g = gn
		curr = next
	}

	found := curr != nil && !s.less(key, curr.data)
	return ocursor[T]{prev: g, curr: curr}, found, true
}

// Contains reports whether key is in the set.
func (s *OptimisticFineGrainedSet[T]) Contains(key T) bool {
	for {
		c, found, ok := s.find(key)
		if !ok {
			continue
		}
		if c.prev.Finish() {
			return found
		}
	}
}

// Insert adds key to the set, returning false if it was already present.
func (s *OptimisticFineGrainedSet[T]) Insert(key T) bool {
	for {
		c, found, ok := s.find(key)
		if !ok {
			continue
		}
		if found {
			if c.prev.Finish() {
				return false
			}
			continue
		}
		w, ok := c.prev.Upgrade()
		if !ok {
			continue
		}
		// The upgrade succeeding means the link is exactly as read: it
		// still points at curr, so splicing in front of curr is safe.
		*w.Get() = newONode(key, c.curr)
		w.Unlock()
		return true
	}
}

// Remove deletes key from the set, returning false if it was absent.
func (s *OptimisticFineGrainedSet[T]) Remove(key T) bool {
	for {
		c, found, ok := s.find(key)
		if !ok {
			continue
		}
		if !found {
			if c.prev.Finish() {
				return false
			}
			continue
		}
		w, ok := c.prev.Upgrade()
		if !ok {
			continue
		}
		// Write-lock the victim's own next link before reading it: an
		// insert racing to splice a node after curr either completes
		// before this lock (and is carried over into next) or fails its
		// own upgrade against it (and retries, no longer finding curr).
		wn := c.curr.next.WriteLock()
		next := *wn.Get()
		*w.Get() = next
		wn.Unlock()
		w.Unlock()
		return true
	}
}

// TryRange visits elements in ascending order, stopping early if f
// returns false. It returns false if a concurrent mutation invalidated
// the walk partway through: elements already yielded were each read
// consistently, but the walk did not reach the end, and the caller
// decides whether to retry.
func (s *OptimisticFineGrainedSet[T]) TryRange(f func(value T) bool) bool {
	g := s.head.ReadLock()
	curr := *g.Get()

	for curr != nil {
		gn := curr.next.ReadLock()
		next := *gn.Get()
		if !g.Finish() {
			gn.Finish()
			return false
		}
		if !f(curr.data) {
			gn.Finish()
			return true
		}
		g = gn
		curr = next
	}
	return g.Finish()
}

// Range retries TryRange until a walk completes without a validation
// failure. After a restart f is invoked again from the smallest element,
// so f must tolerate re-delivery (idempotent accumulation, or resetting
// its own state when the walk restarts); callers that need to observe
// restarts use TryRange directly.
func (s *OptimisticFineGrainedSet[T]) Range(f func(value T) bool) {
	for !s.TryRange(f) {
	}
}
