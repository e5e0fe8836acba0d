// Package instanced implements spec.md §4.6's instanced pool kind: callers
// construct one or more Pool values, each with its own MaxSlabs quota, and
// Construct is a method on that value. Every object produced is registered
// with package origin's address-keyed side table so the raw pointer flavor
// can later route a bare *T back to the right pool (see package origin).
package instanced

import (
	"github.com/fmstephe/slabpool/engine"
	"github.com/fmstephe/slabpool/origin"
)

// Pool is an instanced typed slab allocator for T.
type Pool[T any] struct {
	core *engine.Pool[T]
}

// New builds an instanced pool for T.
func New[T any](cfg engine.Config) *Pool[T] {
	return &Pool[T]{core: engine.New[T](cfg)}
}

// Construct acquires an object of type T and records its origin in the
// package-level side table so it can find its way home via origin.Delete.
// Returns ok=false on exhaustion.
func (p *Pool[T]) Construct() (*T, bool) {
	obj, ok := p.core.Construct()
	if !ok {
		return nil, false
	}

	origin.Track[T](obj, p)
	return obj, true
}

// Acquire implements engine.Facade[T], so instanced pools can be used
// anywhere a flavor adapter expects one.
func (p *Pool[T]) Acquire() (*T, bool) {
	return p.Construct()
}

// Release returns obj's cell to this pool's free list and clears its
// tracking entry. Equivalent to origin.Delete(obj), provided for callers
// that already hold the Pool value.
func (p *Pool[T]) Release(obj *T) {
	origin.Untrack[T](obj)
	p.core.Release(obj)
}

// MaxSlabs returns the configured slab-count ceiling.
func (p *Pool[T]) MaxSlabs() int {
	return p.core.MaxSlabs()
}

// CellsPerSlab returns the configuration-time constant cells-per-slab.
func (p *Pool[T]) CellsPerSlab() uint64 {
	return p.core.CellsPerSlab()
}

// Stats returns a snapshot of the pool's allocation counters.
func (p *Pool[T]) Stats() engine.Stats {
	return p.core.Stats()
}

// Destroy releases every slab this pool owns back to the host.
func (p *Pool[T]) Destroy() error {
	return p.core.Destroy()
}
