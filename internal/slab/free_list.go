package slab

import "unsafe"

// FreeList is a LIFO, intrusive singly-linked list of freed cells. Its nodes
// live *inside* the cells they represent: Push writes a freeNode at the
// cell's address, Pop reads it back out and hands the bare address back to
// the caller. Neither operation allocates.
//
// A FreeList has no locking of its own; callers (engine.Pool) serialize
// access with their own Locker.
type FreeList struct {
	head CellRef
}

func (f *FreeList) node(r CellRef) *freeNode {
	return (*freeNode)(unsafe.Pointer(r.addr))
}

// Push links cell onto the head of the free list, overwriting whatever
// object previously lived there with a free-list node.
func (f *FreeList) Push(cell CellRef) {
	n := f.node(cell)
	n.next = f.head.addr
	f.head = cell
}

// Pop unlinks and returns the cell at the head of the free list. ok is false
// if the list is empty.
func (f *FreeList) Pop() (cell CellRef, ok bool) {
	if f.head.IsNil() {
		return CellRef{}, false
	}

	cell = f.head
	n := f.node(cell)
	f.head = CellRef{addr: n.next}
	return cell, true
}

// Empty reports whether the free list currently holds no cells.
func (f *FreeList) Empty() bool {
	return f.head.IsNil()
}
