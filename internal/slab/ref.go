package slab

import "unsafe"

// CellRef is an opaque handle to a single cell. It carries no Go pointer -
// only a bare address - so it can be stored freely (including inside
// off-heap memory) with zero garbage-collection cost, mirroring the
// teacher's own RefPointer/Reference handles.
type CellRef struct {
	addr uintptr
}

// NilCellRef is the zero value, representing "no cell".
var NilCellRef = CellRef{}

func newCellRef(addr uintptr) CellRef {
	return CellRef{addr: addr}
}

// CellRefFromAddr rebuilds a CellRef from a raw cell address, such as one
// recovered from a live *T via unsafe.Pointer. Used by callers that only
// ever see the object pointer, never the CellRef that produced it (the
// cell's address and the object's address are identical by construction).
func CellRefFromAddr(addr uintptr) CellRef {
	return CellRef{addr: addr}
}

// IsNil reports whether r refers to no cell.
func (r CellRef) IsNil() bool {
	return r.addr == 0
}

// Addr exposes the raw cell address, for the engine package to reinterpret
// as the stored object's memory.
func (r CellRef) Addr() uintptr {
	return r.addr
}

// Ptr reinterprets the cell's memory as a *T. The caller is responsible for
// only doing this while the cell is live and holds a T.
func Ptr[T any](r CellRef) *T {
	return (*T)(unsafe.Pointer(r.addr))
}
