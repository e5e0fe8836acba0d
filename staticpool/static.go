// Package staticpool implements spec.md §4.6's static pool kind: exactly
// one process-wide pool per configured type, stored as type-indexed global
// state. Construct and Delete are type-level operations; no pool value is
// ever held by callers, saving the one pointer per object an instanced
// pool's origin back-reference would otherwise cost.
package staticpool

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/fmstephe/slabpool/engine"
)

var (
	mu       sync.Mutex
	registry = map[reflect.Type]any{}
)

// Declare configures the process-wide pool for T. Must be called at most
// once per type, before the first Construct[T] call - typically from an
// init function or early in main, matching spec.md §6's "the embedding
// program declares its storage once."
//
// Panics if T's pool has already been declared or constructed with default
// configuration.
func Declare[T any](cfg engine.Config) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if _, ok := registry[t]; ok {
		panic(fmt.Errorf("staticpool: pool for %s already declared", t))
	}
	registry[t] = engine.New[T](cfg)
}

// poolFor lazily initializes the pool for T with engine.Config{MaxSlabs: 1}
// (a single slab of the default size, mutex lock, no pre-allocation) if
// Declare was never called. The lookup and lazy initialization are guarded
// by this package's registry mutex.
func poolFor[T any]() *engine.Pool[T] {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	p, ok := registry[t]
	if !ok {
		pool := engine.New[T](engine.Config{MaxSlabs: 1})
		registry[t] = pool
		return pool
	}
	return p.(*engine.Pool[T])
}

// Construct acquires an object of type T from its process-wide pool,
// declaring it with a single-slab default configuration on first use if
// Declare was never called.
func Construct[T any]() (*T, bool) {
	return poolFor[T]().Construct()
}

// Delete releases obj back to T's process-wide pool.
func Delete[T any](obj *T) {
	poolFor[T]().Release(obj)
}

// MaxSlabs returns T's process-wide pool's configured slab-count ceiling.
func MaxSlabs[T any]() int {
	return poolFor[T]().MaxSlabs()
}

// CellsPerSlab returns T's process-wide pool's configuration-time constant
// cells-per-slab.
func CellsPerSlab[T any]() uint64 {
	return poolFor[T]().CellsPerSlab()
}

// Stats returns a snapshot of T's process-wide pool's allocation counters.
func Stats[T any]() engine.Stats {
	return poolFor[T]().Stats()
}

// Destroy releases T's process-wide pool's memory and clears its
// declaration, so a later Declare[T]/Construct[T] starts fresh. Intended
// for test teardown; a production process will typically never call this
// since a static pool is meant to live for the program's lifetime.
func Destroy[T any]() error {
	t := reflect.TypeFor[T]()

	mu.Lock()
	p, ok := registry[t]
	delete(registry, t)
	mu.Unlock()

	if !ok {
		return nil
	}
	return p.(*engine.Pool[T]).Destroy()
}

// Facade is a zero-size, stateless witness type selecting the static pool
// for T at the type level, so pointer-flavor adapters (flavor.Owner,
// flavor.Shared) - which are generic over any engine.Facade[T] - can be
// used with static pools exactly as with instanced ones, without ever
// holding a pool value.
type Facade[T any] struct{}

// Acquire implements engine.Facade[T] by delegating to Construct[T].
func (Facade[T]) Acquire() (*T, bool) {
	return Construct[T]()
}

// Release implements engine.Facade[T] by delegating to Delete[T].
func (Facade[T]) Release(obj *T) {
	Delete[T](obj)
}
