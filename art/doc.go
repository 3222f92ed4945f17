// Package art implements an adaptive radix tree (ART): a byte-string keyed
// map whose internal nodes grow from a 4-child array through 16- and
// 48-child arrays up to a direct 256-child array as they fill, and whose
// edges carry a compressed path prefix so that a long run of single-child
// nodes collapses into one.
//
// The layout follows Leis et al.'s ARTful-indexing paper: four node
// kinds (node4/16/48/256), plus a 0xff key sentinel appended at encode
// time so no stored key is ever a strict prefix of another.
//
// A child edge is not a Go interface value (which would dispatch through
// an itable on every step) but a tagged pointer built from
// internal/taggedptr.Compose/Decompose, with the node kind packed into
// the same low bits the rest of this module's tagged pointers use for a
// deletion mark. Lookup, insert, and delete each pay a single kind switch
// per edge followed by one concrete-type dereference.
//
// Tree is not safe for concurrent use by itself, the same as dlist.List;
// it has no synchronization of its own. A caller wanting shared access
// wraps a *Tree in a lock.Lock[Token, *Tree[V]], reusing the lock
// package's contract rather than this package inventing a concurrent
// variant.
//
// Insert implements node growth (a node must grow to accept an insert
// past its capacity, or it could never exceed 4 children per level) but
// Delete does not shrink: it removes a child in place and never demotes a
// sparsely-populated node48 back to a node16, nor collapses a
// single-child node's prefix into its parent. This trades memory
// compactness after heavy deletion for simpler deletion code, the same
// tradeoff listset.OptimisticFineGrainedSet's restart-from-head
// validation and hashlist.GrowableArray's uncached sentinel pointer make
// elsewhere in this module.
package art
