package slab

import (
	"unsafe"
)

// Slab is a thin, ephemeral view over a single mmap'd region: a header
// (intrusive list node + bump index) immediately followed by
// cfg.CellsPerSlab fixed-size cells. A Slab value carries no state of its
// own beyond the config and the region's base address - it can be recreated
// at any time from those two values, and is never itself stored off-heap.
//
// The header's intrusive "next" link is stored as a plain uintptr holding
// the *next slab's base address*, never a Go pointer. This matters: the
// header lives in mmap'd memory the garbage collector does not scan, so a
// real Go pointer stored there would be invisible to the collector and
// could be freed out from under the slab list.
//
// Slabs are never individually returned to the host allocator - only a
// pool's Destroy releases them, all at once. This is a deliberate,
// preserved behaviour (see SPEC_FULL.md §7): the pool accepts a bounded
// amount of slab-level fragmentation from abandoned capacity in
// non-active slabs rather than pay the bookkeeping cost of reclaiming it.
type Slab struct {
	cfg  Config
	base uintptr // address of the mmap'd region
}

// New mmaps a fresh slab region and initializes its header.
func New(cfg Config) *Slab {
	base := mmapRegion(cfg.SlabSize)
	s := &Slab{cfg: cfg, base: base}
	s.setHeader(header{next: 0, nextUnused: 0})
	return s
}

// FromBase reconstructs the view over an existing slab region, identified by
// the base address previously returned by Base().
func FromBase(base uintptr, cfg Config) *Slab {
	return &Slab{cfg: cfg, base: base}
}

// Base returns the slab region's base address, suitable for passing to
// FromBase or for releasing the region via Destroy on any Slab view sharing
// it.
func (s *Slab) Base() uintptr {
	return s.base
}

// Destroy releases the slab's memory back to the host. The slab, and any
// other Slab view sharing its base address, must not be used again after
// this call.
func (s *Slab) Destroy() error {
	return munmapRegion(s.base, s.cfg.SlabSize)
}

func (s *Slab) header() *header {
	return (*header)(unsafe.Pointer(s.base))
}

func (s *Slab) setHeader(h header) {
	*s.header() = h
}

// Next returns a view over the next slab in the pool's intrusive slab list,
// or nil if this is the last slab.
func (s *Slab) Next() *Slab {
	next := s.header().next
	if next == 0 {
		return nil
	}
	return FromBase(next, s.cfg)
}

// SetNext links s to the next slab in the pool's intrusive slab list.
func (s *Slab) SetNext(next *Slab) {
	addr := uintptr(0)
	if next != nil {
		addr = next.base
	}
	s.header().next = addr
}

// NextUnused returns the slab's current bump index, for conservation
// accounting (spec.md §8 property 2).
func (s *Slab) NextUnused() uint64 {
	return s.header().nextUnused
}

// Carve returns a reference to the cell at the slab's current bump index and
// advances it, or ok=false if the slab has no never-used cells remaining.
// Carve has no knowledge of which cells are live vs free - it only ever
// bumps forward.
func (s *Slab) Carve() (cell CellRef, ok bool) {
	h := s.header()
	if h.nextUnused >= s.cfg.CellsPerSlab {
		return CellRef{}, false
	}

	cellAddr := s.cellAddr(h.nextUnused)
	h.nextUnused++
	return newCellRef(cellAddr), true
}

func (s *Slab) cellAddr(idx uint64) uintptr {
	cellsBase := s.base + uintptr(s.cfg.HeaderSize)
	return cellsBase + uintptr(idx*s.cfg.CellSize)
}
