//go:build windows

package platform

import (
	"sync"

	"golang.org/x/sys/windows"
)

var (
	pageSizeOnce sync.Once
	pageSizeLog2 uint32
)

func hostPageSizeLog2() uint32 {
	pageSizeOnce.Do(func() {
		var info windows.SystemInfo
		windows.GetSystemInfo(&info)
		size := uint32(info.PageSize)
		log2 := uint32(0)
		for (uint32(1) << log2) < size {
			log2++
		}
		pageSizeLog2 = log2
	})
	return pageSizeLog2
}

// reserveVirtualPages reserves address space with MEM_RESERVE only: nothing
// is committed, so every byte (including the trailing guard region) traps on
// access until CommitVirtualPages is called for it.
func reserveVirtualPages(n uint64) (uintptr, bool) {
	size := uintptr(n * HostPageSize())
	if size == 0 {
		return 0, false
	}
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return 0, false
	}
	return addr, true
}

func commitVirtualPages(addr uintptr, n uint64) bool {
	size := uintptr(n * HostPageSize())
	if size == 0 {
		return true
	}
	_, err := windows.VirtualAlloc(addr, size, windows.MEM_COMMIT, windows.PAGE_READWRITE)
	return err == nil
}

func decommitVirtualPages(addr uintptr, n uint64) {
	size := uintptr(n * HostPageSize())
	if size == 0 {
		return
	}
	_ = windows.VirtualFree(addr, size, windows.MEM_DECOMMIT)
}

func releaseVirtualPages(addr uintptr, n uint64) {
	// MEM_RELEASE must release the whole reservation in one call; size must
	// be zero in that case per the VirtualFree contract, so n is unused.
	_ = n
	_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
