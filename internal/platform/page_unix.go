//go:build linux || darwin || freebsd

package platform

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	pageSizeOnce sync.Once
	pageSizeLog2 uint32
)

func hostPageSizeLog2() uint32 {
	pageSizeOnce.Do(func() {
		size := unix.Getpagesize()
		log2 := uint32(0)
		for (1 << log2) < size {
			log2++
		}
		pageSizeLog2 = log2
	})
	return pageSizeLog2
}

// reserveVirtualPages reserves address space with PROT_NONE: every byte in
// the range is mapped but inaccessible until a later mprotect call commits
// it. This is what lets the reservation include guard pages at no extra
// syscall: the trailing guard region is simply never committed.
func reserveVirtualPages(n uint64) (uintptr, bool) {
	size := int(n * HostPageSize())
	if size <= 0 {
		return 0, false
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return 0, false
	}
	return uintptr(unsafe.Pointer(&data[0])), true
}

func commitVirtualPages(addr uintptr, n uint64) bool {
	size := int(n * HostPageSize())
	if size == 0 {
		return true
	}
	mem := rawSlice(addr, size)
	return unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE) == nil
}

func decommitVirtualPages(addr uintptr, n uint64) {
	size := int(n * HostPageSize())
	if size == 0 {
		return
	}
	mem := rawSlice(addr, size)
	// Drop the backing and revert to PROT_NONE: a re-access must either be
	// re-committed explicitly (UnmapPages contract) or fault, never
	// silently succeed against stale data.
	_ = unix.Madvise(mem, unix.MADV_DONTNEED)
	_ = unix.Mprotect(mem, unix.PROT_NONE)
}

func releaseVirtualPages(addr uintptr, n uint64) {
	size := int(n * HostPageSize())
	if size == 0 {
		return
	}
	mem := rawSlice(addr, size)
	_ = unix.Munmap(mem)
}

// rawSlice builds a []byte view over a raw reservation, since the memory
// did not come from the Go allocator and unix.Mprotect/Munmap want a slice.
func rawSlice(addr uintptr, size int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}
