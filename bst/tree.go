package bst

import "github.com/dijkstracula/go-concur/lock"

// Dir is a traversal direction: left toward smaller keys, right toward
// larger ones.
type Dir int

const (
	DirL Dir = iota
	DirR
)

// Opposite returns the other direction.
func (d Dir) Opposite() Dir {
	if d == DirL {
		return DirR
	}
	return DirL
}

// nodeInner is a node's mutable state, protected as a single unit by a
// SeqLock: its value (absent for the sentinel root), its two child
// pointers, and a removed flag. removed is set, under the node's own
// write lock, at the instant the node is unlinked from its parent;
// traversals and mutators that land on a removed node restart, so no
// update can ever be applied to a node that is no longer reachable.
type nodeInner[K any, V any] struct {
	value   V
	left    *node[K, V]
	right   *node[K, V]
	removed bool
}

func (in *nodeInner[K, V]) child(dir Dir) *node[K, V] {
	if dir == DirL {
		return in.left
	}
	return in.right
}

func (in *nodeInner[K, V]) setChild(dir Dir, n *node[K, V]) {
	if dir == DirL {
		in.left = n
	} else {
		in.right = n
	}
}

// node is one cell of the tree. key is immutable once constructed and is
// read by any traversal without taking inner's lock at all; only value,
// the child pointers, and the removed flag are protected by inner.
type node[K any, V any] struct {
	key   K
	inner *lock.SeqLock[nodeInner[K, V]]
}

func newNode[K any, V any](key K, value V) *node[K, V] {
	return &node[K, V]{key: key, inner: lock.NewSeqLock(nodeInner[K, V]{value: value})}
}

// Tree is a concurrent binary search tree ordered by cmp (negative if
// a < b, zero if equal, positive if a > b). The root field is a sentinel
// holding no value of its own; the real tree hangs off its right child,
// so every traversal starts by stepping DirR out of the sentinel.
type Tree[K any, V any] struct {
	root *node[K, V]
	cmp  func(a, b K) int
}

// NewTree returns an empty tree ordered by cmp.
func NewTree[K any, V any](cmp func(a, b K) int) *Tree[K, V] {
	var zero K
	return &Tree[K, V]{
		root: &node[K, V]{key: zero, inner: lock.NewSeqLock(nodeInner[K, V]{})},
		cmp:  cmp,
	}
}

// find walks from the root looking for key, restarting the entire
// traversal from scratch whenever a SeqLock read validation fails or the
// walk lands on a removed node, rather than trying to patch up a
// partially-stale path. On success it returns the matched node's
// immediate parent, the direction from parent to it, the node itself,
// and a validated snapshot of the node's own inner state. On failure,
// parent/dir locate where key would be inserted and cur is nil.
func (t *Tree[K, V]) find(key K) (parent *node[K, V], dir Dir, cur *node[K, V], inner nodeInner[K, V], found bool) {
retry:
	parent = t.root
	dir = DirR
	r := parent.inner.ReadLock()
	in := *r.Get()
	if !r.Finish() {
		goto retry
	}
	cur = in.child(dir)

	for cur != nil {
		rc := cur.inner.ReadLock()
		curIn := *rc.Get()
		if !rc.Finish() || curIn.removed {
			goto retry
		}

		c := t.cmp(key, cur.key)
		if c == 0 {
			return parent, dir, cur, curIn, true
		}
		parent = cur
		if c < 0 {
			dir = DirL
		} else {
			dir = DirR
		}
		in = curIn
		cur = in.child(dir)
	}
	return parent, dir, nil, nodeInner[K, V]{}, false
}

// attach installs newChild as parent's dir-child, but only if parent is
// still in the tree and its slot still holds old; a mismatch means some
// other goroutine already mutated this slot since the caller observed
// it, so the caller must retry from find(). Returns whether the
// replacement happened.
func (t *Tree[K, V]) attach(parent *node[K, V], dir Dir, old, newChild *node[K, V]) bool {
	w := parent.inner.WriteLock()
	if w.Get().removed || w.Get().child(dir) != old {
		w.Unlock()
		return false
	}
	w.Get().setChild(dir, newChild)
	w.Unlock()
	return true
}

// unlink detaches cur (parent's dir-child), marking it removed and
// splicing repl into its place. Both locks are taken parent-first, the
// same top-down order every mutator uses, so unlinks never deadlock.
// repl is computed from a fresh snapshot of cur's state, taken under
// cur's own write lock so no concurrent insert beneath cur can be lost.
// Returns the snapshot and whether the unlink happened.
func (t *Tree[K, V]) unlink(parent *node[K, V], dir Dir, cur *node[K, V], repl func(in nodeInner[K, V]) (*node[K, V], bool)) (nodeInner[K, V], bool) {
	w := parent.inner.WriteLock()
	if w.Get().removed || w.Get().child(dir) != cur {
		w.Unlock()
		return nodeInner[K, V]{}, false
	}
	cw := cur.inner.WriteLock()
	in := *cw.Get()
	newChild, ok := repl(in)
	if !ok {
		cw.Unlock()
		w.Unlock()
		return nodeInner[K, V]{}, false
	}
	cw.Get().removed = true
	cw.Unlock()
	w.Get().setChild(dir, newChild)
	w.Unlock()
	return in, true
}

// Lookup returns the value stored under key, if any.
func (t *Tree[K, V]) Lookup(key K) (V, bool) {
	_, _, cur, inner, found := t.find(key)
	if !found || cur == nil {
		var zero V
		return zero, false
	}
	return inner.value, true
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Insert adds key/value, returning false if key is already present.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	for {
		parent, dir, cur, _, found := t.find(key)
		if found {
			return false
		}
		if t.attach(parent, dir, cur, newNode(key, value)) {
			return true
		}
	}
}

// removeMin removes and returns the key/value of the in-order successor
// of root (i.e. the leftmost node of root's right subtree), which is
// always safe to detach in place since it has no left child of its own.
// Returns ok=false if a concurrent mutation invalidated the walk; the
// caller is expected to retry its whole operation in that case.
func (t *Tree[K, V]) removeMin(root *node[K, V]) (key K, value V, ok bool) {
	parent := root
	dir := DirR

	r := parent.inner.ReadLock()
	in := *r.Get()
	if !r.Finish() {
		return key, value, false
	}
	cur := in.child(dir)
	if cur == nil {
		return key, value, false
	}

	for {
		rc := cur.inner.ReadLock()
		curIn := *rc.Get()
		if !rc.Finish() || curIn.removed {
			return key, value, false
		}
		if curIn.left == nil {
			in, ok := t.unlink(parent, dir, cur, func(in nodeInner[K, V]) (*node[K, V], bool) {
				// A smaller key may have been inserted beneath cur since the
				// read above; it would be orphaned by the splice, so retry.
				return in.right, in.left == nil
			})
			if !ok {
				return key, value, false
			}
			return cur.key, in.value, true
		}
		parent = cur
		dir = DirL
		cur = curIn.left
	}
}

// Delete removes key, returning its prior value and false if it was
// absent. A node with zero or one child is unlinked directly; a node
// with two children has its in-order successor's key/value promoted into
// a freshly constructed replacement node spliced into its place, since
// node keys are immutable once constructed (readers compare against
// cur.key without taking any lock, so that field can never be rewritten
// in place).
func (t *Tree[K, V]) Delete(key K) (V, bool) {
	for {
		parent, dir, cur, inner, found := t.find(key)
		if !found {
			var zero V
			return zero, false
		}

		if inner.left == nil || inner.right == nil {
			in, ok := t.unlink(parent, dir, cur, func(in nodeInner[K, V]) (*node[K, V], bool) {
				if in.left == nil {
					return in.right, true
				}
				return in.left, in.right == nil
			})
			if ok {
				return in.value, true
			}
			continue
		}

		// Two children: promote the in-order successor's key/value into a
		// fresh replacement node. The parent's write lock is held across
		// the whole splice: once removeMin has taken the successor out of
		// cur's right subtree, the swap of cur for its replacement must
		// not be able to fail, or the successor would be lost. Holding it
		// also pins cur in the tree (unlinking cur would require this same
		// lock), so the later re-read of cur's children cannot race a
		// removal of cur itself.
		w := parent.inner.WriteLock()
		if w.Get().removed || w.Get().child(dir) != cur {
			w.Unlock()
			continue
		}
		succKey, succValue, ok := t.removeMin(cur)
		if !ok {
			w.Unlock()
			continue
		}

		replacement := newNode(succKey, succValue)
		cw := cur.inner.WriteLock()
		in := *cw.Get()
		cw.Get().removed = true
		cw.Unlock()
		rw := replacement.inner.WriteLock()
		rw.Get().left, rw.Get().right = in.left, in.right
		rw.Unlock()

		w.Get().setChild(dir, replacement)
		w.Unlock()
		return in.value, true
	}
}
