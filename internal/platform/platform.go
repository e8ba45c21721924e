// Package platform is the host virtual-memory shim consumed by internal/wasmmem.
//
// It exposes exactly the primitives the memory manager relies on: query the
// host page size, reserve/commit/decommit/release ranges of host virtual
// address space, and saturate an offset to a bound without triggering
// undefined behavior on overflow. Everything else (where the bytes end up
// mapped, how guard pages trap) is platform-specific and lives in
// page_unix.go / page_windows.go.
package platform

import "sync"

// Mutex is the shim's lock primitive. It is a plain sync.Mutex: neither the
// global registry nor a Compartment need anything fancier, and introducing a
// custom lock here would just be indirection over the one the standard
// library already provides.
type Mutex = sync.Mutex

// HostPageSizeLog2 returns log2 of the host's virtual memory page size. The
// memory manager asserts this is no larger than the WebAssembly page size
// (65536 bytes, i.e. a log2 of 16) and uses it to compute the
// wasm-page-to-host-page ratio once at startup.
func HostPageSizeLog2() uint32 {
	return hostPageSizeLog2()
}

// HostPageSize returns the host's virtual memory page size in bytes.
func HostPageSize() uint64 {
	return uint64(1) << HostPageSizeLog2()
}

// SaturateToBound returns min(x, bound) without overflow, regardless of how
// x and bound compare. Used to clamp an untrusted offset before doing
// further pointer arithmetic against it.
func SaturateToBound(x, bound uint64) uint64 {
	if x > bound {
		return bound
	}
	return x
}

// ReserveVirtualPages reserves n host pages of address space with no backing
// storage, returning the base address of the reservation. It returns (0,
// false) if the host could not satisfy the reservation (out of address
// space, or the platform rejected the request).
func ReserveVirtualPages(n uint64) (uintptr, bool) {
	return reserveVirtualPages(n)
}

// CommitVirtualPages makes n host pages starting at addr readable and
// writable. addr must fall within a prior ReserveVirtualPages reservation.
// Returns false if the host could not back the pages (e.g. out of memory).
func CommitVirtualPages(addr uintptr, n uint64) bool {
	return commitVirtualPages(addr, n)
}

// DecommitVirtualPages releases the physical backing of n host pages
// starting at addr without releasing the address space reservation itself.
// On both the unix and windows backends the pages become inaccessible again:
// a subsequent access faults until CommitVirtualPages is called for them.
func DecommitVirtualPages(addr uintptr, n uint64) {
	decommitVirtualPages(addr, n)
}

// ReleaseVirtualPages releases a reservation of n host pages starting at
// addr, including any guard pages that were reserved alongside it. After
// this call, addr is no longer valid for any purpose.
func ReleaseVirtualPages(addr uintptr, n uint64) {
	releaseVirtualPages(addr, n)
}

// Is64BitHost reports whether the host uintptr is at least 64 bits wide.
// The memory manager uses this to decide whether it can honor the 8GiB
// reservation contract (see DESIGN.md's 32-bit hosts resolution).
func Is64BitHost() bool {
	const uintptrBits = 32 << (^uintptr(0) >> 63)
	return uintptrBits >= 64
}
