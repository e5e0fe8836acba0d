// Package slab carves mmap'd slab regions into fixed-size, fixed-alignment
// cells and threads an intrusive free list through the cells that have been
// returned. It knows nothing about the type stored in a cell - that's the
// engine package's job.
package slab

import (
	"fmt"
	"unsafe"

	"github.com/fmstephe/flib/fmath"
)

// DefaultSlabSize is the slab size used when a Config is built without an
// explicit size.
const DefaultSlabSize = 16 * 1024

// header is the intrusive slab-list node plus bump-allocation state stored
// at the front of every mmap'd slab region.
type header struct {
	next       uintptr // *slab, see slab.go
	nextUnused uint64
}

var headerSize = uint64(unsafe.Sizeof(header{}))

// freeNode is the smallest possible cell payload: a single intrusive
// next-pointer. Every cell must be at least this big so a freed cell can
// always hold a free-list node.
type freeNode struct {
	next uintptr
}

var freeNodeSize = uint64(unsafe.Sizeof(freeNode{}))

// Config describes the fixed layout shared by every slab in one pool.
type Config struct {
	ObjectSize uint64
	CellSize   uint64

	RequestedSlabSize uint64
	SlabSize          uint64

	CellsPerSlab uint64
	HeaderSize   uint64
}

// NewConfig computes the slab layout for a pool whose cells must be able to
// hold objectSize bytes (the caller's unsafe.Sizeof(T)). requestedSlabSize is
// rounded up to the next power of two, mirroring the teacher's
// NewAllocConfigBySize sizing strategy, so that slabs land on cache- and
// page-friendly boundaries.
//
// A requested slab size too small for the header plus one cell is not
// rejected: the slab is grown to the next power of two that fits the header
// and exactly one cell, so the returned Config always has CellsPerSlab >= 1.
func NewConfig(objectSize uint64, requestedSlabSize uint64) Config {
	if requestedSlabSize == 0 {
		requestedSlabSize = DefaultSlabSize
	}

	cellSize := objectSize
	if cellSize < freeNodeSize {
		cellSize = freeNodeSize
	}

	// Every cell must satisfy max(alignof(object), alignof(free_list_node)).
	// alignof(freeNode) is 8 (it's a single uintptr) and no ordinary Go type
	// needs more than that on the platforms this pool targets, so rounding
	// every cell up to a multiple of 8 bytes satisfies both at once - and,
	// critically, keeps every cell in a slab 8-byte aligned as the carving
	// bump-index strides across them by exactly cellSize each time.
	const cellAlign = 8
	if rem := cellSize % cellAlign; rem != 0 {
		cellSize += cellAlign - rem
	}

	slabSize := uint64(fmath.NxtPowerOfTwo(int64(requestedSlabSize)))

	cellsPerSlab := uint64(0)
	if slabSize > headerSize {
		cellsPerSlab = (slabSize - headerSize) / cellSize
	}

	if cellsPerSlab == 0 {
		// The configured slab is too small to hold even one cell plus
		// the header. Grow the slab to fit exactly one cell - this
		// keeps every pool usable regardless of how small a slab size
		// was requested, while still surfacing a loud failure if the
		// object itself is somehow unrepresentable.
		slabSize = uint64(fmath.NxtPowerOfTwo(int64(headerSize + cellSize)))
		cellsPerSlab = (slabSize - headerSize) / cellSize
	}

	if cellsPerSlab < 1 {
		panic(fmt.Errorf("slab layout for object size %d yields zero cells per slab", objectSize))
	}

	return Config{
		ObjectSize:        objectSize,
		CellSize:          cellSize,
		RequestedSlabSize: requestedSlabSize,
		SlabSize:          slabSize,
		CellsPerSlab:      cellsPerSlab,
		HeaderSize:        headerSize,
	}
}
