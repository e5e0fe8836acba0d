// Package engine is the core typed slab allocator: slab carving, the
// intrusive free list, the acquire/release path and lock discipline of
// spec.md §4.2-§4.4. It is deliberately ignorant of pointer flavors and of
// the instanced-vs-static facade choice; both are built on top of the
// Facade interface this package defines.
package engine

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/fmstephe/slabpool/internal/slab"
)

// Facade is the minimal surface a pointer-flavor adapter (flavor.Owner,
// flavor.Shared) needs from whatever is dispensing cells - a Pool[T], an
// instanced.Pool[T], or a static pool's stateless handle.
type Facade[T any] interface {
	Acquire() (*T, bool)
	Release(obj *T)
}

// Stats reports the allocation counters of a Pool, mirroring the teacher's
// objectstore/pointerstore Stats() introspection.
type Stats struct {
	Allocs int
	Frees  int
	Reused int
	Live   int
	Slabs  int
}

// Pool is the instanced core allocator for objects of type T. A Pool is a
// runtime value: each one owns its own slabs, free list and lock, and can
// be configured with its own MaxSlabs quota (spec.md §4.6's "instanced"
// pool kind). It satisfies Facade[T] directly, so it can be used wherever a
// facade is expected - including as the building block under
// instanced.Pool, which layers origin tagging on top.
type Pool[T any] struct {
	cfg     Config
	slabCfg slab.Config

	lock     locker
	slabHead *slab.Slab
	slabs    int
	free     slab.FreeList

	allocs atomic.Uint64
	frees  atomic.Uint64
	reused atomic.Uint64
	live   atomic.Int64

	// freeSet tracks currently-free cell addresses for the optional
	// debug-mode misuse detector. Only populated when cfg.Debug is set.
	freeSet map[uintptr]bool
}

// New builds a Pool for type T. Panics if cfg.MaxSlabs < 1. A cfg.SlabSize
// too small to hold one cell of T is not rejected: slab.NewConfig grows the
// slab until one cell fits.
func New[T any](cfg Config) *Pool[T] {
	if cfg.MaxSlabs < 1 {
		panic(fmt.Errorf("engine: MaxSlabs must be at least 1, got %d", cfg.MaxSlabs))
	}

	var zero T
	slabCfg := slab.NewConfig(uint64(unsafe.Sizeof(zero)), cfg.SlabSize)

	p := &Pool[T]{
		cfg:     cfg,
		slabCfg: slabCfg,
		lock:    newLocker(cfg.Lock),
	}
	if cfg.Debug {
		p.freeSet = make(map[uintptr]bool)
	}

	if cfg.PreAllocate {
		cell, ok := p.acquireCell()
		if !ok {
			panic(fmt.Errorf("engine: pre-allocation failed for first slab"))
		}
		p.releaseCell(cell)
	}

	return p
}

// MaxSlabs returns the configured slab-count ceiling.
func (p *Pool[T]) MaxSlabs() int {
	return p.cfg.MaxSlabs
}

// CellsPerSlab returns the compile-time (well, configuration-time) constant
// number of cells per slab - spec.md's AllocsPerSlab.
func (p *Pool[T]) CellsPerSlab() uint64 {
	return p.slabCfg.CellsPerSlab
}

// Stats returns a snapshot of the pool's allocation counters.
func (p *Pool[T]) Stats() Stats {
	p.lock.Lock()
	slabs := p.slabs
	p.lock.Unlock()

	return Stats{
		Allocs: int(p.allocs.Load()),
		Frees:  int(p.frees.Load()),
		Reused: int(p.reused.Load()),
		Live:   int(p.live.Load()),
		Slabs:  slabs,
	}
}

// Construct acquires a cell, constructs the zero value of T in it, and
// returns a pointer to it. Go's zero-value construction cannot fail, so the
// "constructor failure" branch spec.md §4.4 describes is unreachable here;
// the only failure mode is exhaustion, reported by ok=false.
func (p *Pool[T]) Construct() (obj *T, ok bool) {
	cell, ok := p.acquireCell()
	if !ok {
		return nil, false
	}

	obj = slab.Ptr[T](cell)
	// End the free-list node's lifetime before starting the object's: a
	// reused cell may still hold a stale free-node or a previous
	// occupant's bytes, so it must be zeroed before anyone reads obj.
	*obj = zero[T]()

	p.live.Add(1)
	return obj, true
}

// Acquire implements Facade[T] for Pool itself.
func (p *Pool[T]) Acquire() (*T, bool) {
	return p.Construct()
}

// Release returns obj's cell to the free list. obj must have been produced
// by this Pool's Construct and must never be used again afterwards.
func (p *Pool[T]) Release(obj *T) {
	addr := uintptr(unsafe.Pointer(obj))
	p.release(slab.CellRefFromAddr(addr))
}

func (p *Pool[T]) release(cell slab.CellRef) {
	p.releaseCell(cell)
	p.live.Add(-1)
}

// Destroy releases every slab the pool owns back to the host. Panics if any
// object is still live and the pool was built with Config.Debug set,
// surfacing the leak spec.md §4.8 and §8.8 describe; without Debug the
// check is skipped (the allocator still releases the memory).
func (p *Pool[T]) Destroy() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.cfg.Debug && p.live.Load() != 0 {
		panic(fmt.Errorf("engine: pool destroyed with %d live object(s)", p.live.Load()))
	}

	for s := p.slabHead; s != nil; {
		next := s.Next()
		if err := s.Destroy(); err != nil {
			return err
		}
		s = next
	}
	p.slabHead = nil
	p.slabs = 0
	p.free = slab.FreeList{}
	return nil
}

// acquireCell implements spec.md §4.4's acquire path: free list, then
// active-slab bump, then a new slab, then exhaustion. The lock is held for
// the whole call, including the mmap syscall a new slab requires - slab
// creation is rare and not a contention hotspot for this allocator's target
// workloads.
func (p *Pool[T]) acquireCell() (slab.CellRef, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if cell, ok := p.free.Pop(); ok {
		p.allocs.Add(1)
		p.reused.Add(1)
		if p.cfg.Debug {
			delete(p.freeSet, cell.Addr())
		}
		return cell, true
	}

	if p.slabHead != nil {
		if cell, ok := p.slabHead.Carve(); ok {
			p.allocs.Add(1)
			return cell, true
		}
	}

	if p.slabs < p.cfg.MaxSlabs {
		newSlab := slab.New(p.slabCfg)
		newSlab.SetNext(p.slabHead)
		p.slabHead = newSlab
		p.slabs++

		// A freshly mmap'd slab always has at least one cell
		// (enforced by slab.NewConfig), so this carve cannot fail.
		cell, _ := newSlab.Carve()
		p.allocs.Add(1)
		return cell, true
	}

	return slab.CellRef{}, false
}

// releaseCell implements spec.md §4.4's release: push the cell onto the
// free list.
func (p *Pool[T]) releaseCell(cell slab.CellRef) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.cfg.Debug {
		if p.freeSet[cell.Addr()] {
			panic(fmt.Errorf("engine: double free of cell at %#x", cell.Addr()))
		}
		p.freeSet[cell.Addr()] = true
	}

	p.free.Push(cell)
	p.frees.Add(1)
}

func zero[T any]() T {
	var z T
	return z
}
