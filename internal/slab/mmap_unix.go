package slab

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapRegion reserves size bytes of anonymous, zero-filled memory from the
// host operating system. The returned address is page aligned, which always
// satisfies any alignment a Go value can request via unsafe.Alignof.
func mmapRegion(size uint64) uintptr {
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(fmt.Errorf("cannot mmap %d bytes for slab: %w", size, err))
	}
	return (uintptr)((unsafe.Pointer)(&data[0]))
}

// munmapRegion releases a region previously returned by mmapRegion.
func munmapRegion(addr uintptr, size uint64) error {
	b := unsafe.Slice((*byte)((unsafe.Pointer)(addr)), int(size))
	return unix.Munmap(b)
}
