// Package bst implements a concurrent binary search tree protected by
// optimistic lock coupling, per Bronson, Casper, Chafi, and Olukotun, "A
// Practical Concurrent Binary Search Tree" (PPoPP 2010): every node's
// mutable state (its value and its two child pointers) lives behind a
// lock.SeqLock, so a traversal reads ahead without ever blocking a
// concurrent writer and only takes a write lock when it is about to
// insert or delete; a lookup never takes one.
//
// Deleting a node with two children does not use the paper's routing
// nodes: the node is spliced out and replaced by a freshly constructed
// node carrying its in-order successor's key and value (the successor
// itself is unlinked from the right subtree), as a textbook
// single-threaded BST delete would, coupled with the same SeqLock write
// discipline every other mutation uses.
package bst
