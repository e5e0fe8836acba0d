package engine

import "sync"

// LockKind selects the synchronization strategy a Pool uses to guard its
// slab list and free list.
type LockKind int

const (
	// LockMutex guards the pool with a mutual-exclusion lock, safe for
	// concurrent callers.
	LockMutex LockKind = iota
	// LockNone installs a no-op lock for single-threaded use. This is a
	// semantics-preserving optimization only - nothing else changes.
	LockNone
)

// locker is the minimal interface the pool needs from its synchronization
// primitive.
type locker interface {
	Lock()
	Unlock()
}

type mutexLocker struct {
	mu sync.Mutex
}

func (l *mutexLocker) Lock()   { l.mu.Lock() }
func (l *mutexLocker) Unlock() { l.mu.Unlock() }

type noLocker struct{}

func (noLocker) Lock()   {}
func (noLocker) Unlock() {}

func newLocker(kind LockKind) locker {
	switch kind {
	case LockNone:
		return noLocker{}
	default:
		return &mutexLocker{}
	}
}

// Config is the configuration record resolved before a Pool is built:
// slab size, slab-count ceiling, pre-allocation, and lock kind. The object
// type and pointer flavor are resolved by which package's constructor the
// caller uses, not by fields here.
type Config struct {
	// SlabSize is the requested size, in bytes, of each slab. Rounded up
	// to the next power of two, and grown further if that is too small
	// for the header plus one cell. Zero selects slab.DefaultSlabSize.
	SlabSize uint64

	// MaxSlabs bounds the number of slabs the pool will ever create. Must
	// be at least 1.
	MaxSlabs int

	// PreAllocate, when true, acquires and immediately releases one cell
	// during New so the first slab exists before any caller-visible
	// Construct call. Combined with MaxSlabs == 1 this makes every
	// subsequent Construct strictly non-allocating.
	PreAllocate bool

	// Lock selects the synchronization strategy. The zero value is
	// LockMutex.
	Lock LockKind

	// Debug enables the optional, best-effort misuse detector: freed
	// cell addresses are tracked in a side set so double-frees panic
	// instead of corrupting the free list, and Destroy refuses to
	// proceed if any object is still live.
	Debug bool
}
