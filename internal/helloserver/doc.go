// Package helloserver is the cancellable-listener + single-flight-cache +
// bounded-worker-pool machinery behind cmd/helloserver: a small TCP
// server that answers GET /KEY with a memoized, deliberately
// slow-to-compute result, wired atop this module's own lock package
// instead of a database or third-party cache.
package helloserver
