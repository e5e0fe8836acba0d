package flavor

import (
	"sync/atomic"

	"github.com/fmstephe/slabpool/engine"
)

// Shared is a reference-counted handle on an object of type T: cloning
// increments the count, and the last drop invokes delete. This is spec.md
// §4.1's shared-reference flavor.
type Shared[T any] struct {
	box *sharedBox[T]
}

type sharedBox[T any] struct {
	facade   engine.Facade[T]
	ptr      *T
	refcount atomic.Int32
}

// NewShared acquires a new object of type T with an initial reference count
// of 1. ok is false on exhaustion.
func NewShared[T any](f engine.Facade[T]) (Shared[T], bool) {
	ptr, ok := f.Acquire()
	if !ok {
		return Shared[T]{}, false
	}

	box := &sharedBox[T]{facade: f, ptr: ptr}
	box.refcount.Store(1)
	return Shared[T]{box: box}, true
}

// Value returns the shared object. Safe to call from any holder as long as
// at least one Clone of this handle remains undropped.
func (s Shared[T]) Value() *T {
	return s.box.ptr
}

// Clone increments the reference count and returns a new handle sharing the
// same underlying object. Each returned handle must eventually be dropped
// exactly once via Release.
func (s Shared[T]) Clone() Shared[T] {
	s.box.refcount.Add(1)
	return Shared[T]{box: s.box}
}

// Release drops this handle. When the last handle is dropped the object's
// cell is returned to its originating pool.
func (s Shared[T]) Release() {
	if s.box.refcount.Add(-1) == 0 {
		s.box.facade.Release(s.box.ptr)
	}
}
