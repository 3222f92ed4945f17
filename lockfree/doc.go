// Package lockfree implements lock-free data structures built directly on
// tagged atomic pointers and hazard-pointer reclamation: a sorted singly
// linked list with three traversal strategies (List), a Treiber stack
// (Stack), and a Michael-Scott queue (Queue).
//
// None of these types allocate a per-goroutine guard internally; every List
// operation, and every Stack or Queue operation that can retire a node or
// protects one it dereferences, takes an explicit *hazard.Retirees (Stack.Push
// and the IsEmpty methods take none), playing the role crossbeam_epoch's per-thread Guard
// plays in Rust codebases (see hazard.Retirees's doc comment).
package lockfree
