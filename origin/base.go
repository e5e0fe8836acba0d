// Package origin provides the back-reference spec.md §4.5 requires of every
// object allocated through an instanced pool: a lifecycle-tied, non-owning
// link back to the pool that produced it, so the raw pointer flavor's
// explicit Delete can route a bare *T to the correct pool without the
// caller having to keep the pool value around.
//
// The mapping is kept in a Go-heap side table, keyed by cell address, not in
// a field embedded in T. T is allocated from mmap'd memory (see
// internal/slab/mmap_unix.go) that the garbage collector never scans; a
// live Releaser[T] interface value written there would be invisible to the
// collector and could be freed out from under the pool it refers to - the
// same hazard the teacher's offheap/pointer_checker.go exists to catch for
// plain Go pointers stored off-heap.
//
// Static pools need none of this (spec.md §4.6) - the pool is reachable
// from the type alone, so nothing in this package is needed for objects
// allocated through staticpool.
package origin

import (
	"fmt"
	"sync"
	"unsafe"
)

// Releaser is the minimal capability the registry needs from the pool that
// allocated an object: the ability to release it back by address. Both
// engine.Pool and instanced.Pool satisfy this.
type Releaser[T any] interface {
	Release(obj *T)
}

var (
	mu       sync.Mutex
	registry = map[uintptr]any{}
)

// Track records that obj was allocated by r, so a later Delete can route it
// back to r without the caller holding a reference to r. Called once, by
// the instanced pool, immediately after construction.
func Track[T any](obj *T, r Releaser[T]) {
	addr := uintptr(unsafe.Pointer(obj))

	mu.Lock()
	registry[addr] = r
	mu.Unlock()
}

// Untrack removes obj's recorded origin, if any. Safe to call on an object
// that was never tracked, or whose tracking entry has already been removed.
func Untrack[T any](obj *T) {
	addr := uintptr(unsafe.Pointer(obj))

	mu.Lock()
	delete(registry, addr)
	mu.Unlock()
}

// Delete routes obj back to its originating pool, looked up by address, and
// clears its tracking entry. This is the raw pointer flavor's explicit
// destruction path for instanced pools (spec.md §4.1, §4.5).
//
// Panics if obj has no recorded origin - this only happens for an object
// that was never produced by a pool's Construct, or one already deleted,
// which is a programmer error under spec.md §4.8's misuse category.
func Delete[T any](obj *T) {
	addr := uintptr(unsafe.Pointer(obj))

	mu.Lock()
	v, ok := registry[addr]
	if ok {
		delete(registry, addr)
	}
	mu.Unlock()

	if !ok {
		panic(fmt.Errorf("origin: Delete called on an object with no recorded origin"))
	}

	r := v.(Releaser[T])
	r.Release(obj)
}
