package lockfree

import "github.com/dijkstracula/go-concur/internal/taggedptr"

// cursor is a traversal's position in the list: prev is the
// tagged-pointer slot it is about to act through (the list's head,
// or some live node's own next field), and curr is the node that slot
// currently holds, its mark bit already stripped off.
//
// found records whether curr's key equals the key the traversal was
// searching for (findHarrisHerlihyShavit additionally requires curr to be
// unmarked); the three find* strategies in list.go set it before returning.
type cursor[K any, V any] struct {
	prev  *taggedptr.Atomic[node[K, V]]
	curr  *node[K, V]
	found bool
}
