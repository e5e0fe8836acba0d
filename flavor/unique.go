// Package flavor implements the move-only unique and reference-counted
// shared pointer-flavor adapters of spec.md §4.1. Both are generic over any
// engine.Facade[T] - an *engine.Pool[T], an *instanced.Pool[T], or a
// staticpool.Facade[T] - so the same adapter code works across every
// pool-kind choice.
//
// The raw flavor needs no adapter type at all: engine.Pool.Construct,
// instanced.Pool.Construct and staticpool.Construct already hand back a
// bare *T, and deletion is origin.Delete or staticpool.Delete - exactly
// spec.md §4.1's "wrap(ptr) = ptr".
package flavor

import (
	"fmt"
	"runtime"

	"github.com/fmstephe/slabpool/engine"
)

// Owner is a move-only handle on an object of type T: its scope end -
// triggered by an explicit Close, conventionally via defer - invokes
// delete, routing the cell back to its originating pool. Go has no
// compiler-enforced move semantics or scope-end destructors, so Owner
// backstops a missing Close with a runtime.AddCleanup registration that
// releases the object when it is garbage collected and logs that a Close
// call was missed; this is a leak detector of last resort, not the primary
// release path.
type Owner[T any] struct {
	box *ownerBox[T]
}

type ownerBox[T any] struct {
	facade  engine.Facade[T]
	ptr     *T
	closed  bool
	cleanup runtime.Cleanup
}

// cleanupArg is the runtime.AddCleanup argument for an ownerBox's backstop.
// It must not be (or contain a pointer to) the watched object - here that's
// box itself - or box could never be considered unreachable and the
// cleanup would never run. Carrying only facade/ptr, copied out of box
// rather than referencing it, keeps the watched pointer and the argument
// disjoint.
type cleanupArg[T any] struct {
	facade engine.Facade[T]
	ptr    *T
}

// NewOwner acquires a new object of type T and wraps it in a move-only
// Owner. ok is false on exhaustion.
func NewOwner[T any](f engine.Facade[T]) (Owner[T], bool) {
	ptr, ok := f.Acquire()
	if !ok {
		return Owner[T]{}, false
	}

	box := &ownerBox[T]{facade: f, ptr: ptr}
	arg := cleanupArg[T]{facade: f, ptr: ptr}
	box.cleanup = runtime.AddCleanup(box, func(a cleanupArg[T]) {
		fmt.Printf("flavor: Owner[%T] garbage collected without Close; releasing its cell now\n", a.ptr)
		a.facade.Release(a.ptr)
	}, arg)

	return Owner[T]{box: box}, true
}

// Value returns the owned object. Must not be called after Close.
func (o Owner[T]) Value() *T {
	return o.box.ptr
}

// Close releases the owned object back to its pool. Safe to call multiple
// times; only the first call has any effect, mirroring spec.md's "move-only
// owner whose scope end invokes delete" - Go's nearest equivalent to a
// scope-end destructor is an explicit, idempotent Close invoked via defer.
func (o Owner[T]) Close() {
	if o.box.closed {
		return
	}
	o.box.closed = true
	o.box.cleanup.Stop()
	o.box.facade.Release(o.box.ptr)
}
