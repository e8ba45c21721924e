package wasmmem

import (
	"fmt"
	"math"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/platform"
)

const (
	// WasmPageSize is the fixed unit of WebAssembly linear memory: 65536
	// bytes (2^16). See https://www.w3.org/TR/wasm-core-1/#page-size
	WasmPageSize = uint64(1) << 16

	// wasmPageSizeLog2 satisfies 1<<wasmPageSizeLog2 == WasmPageSize.
	wasmPageSizeLog2 = 16

	// reservationBytes64 is the size, in bytes, of the virtual address
	// space reserved for a single memory on a 64-bit host: 8GiB. It is
	// large enough that base+index+staticOffset, with index and
	// staticOffset each 32 bits, always lands inside the reservation or
	// its guard region. See spec.md §4.1.
	reservationBytes64 = uint64(8) << 30

	// numGuardHostPages is the number of host pages reserved past
	// end_offset. One page is enough to catch compiled code's single-page
	// misaligned-access probe past the end of the reservation.
	numGuardHostPages = 1
)

// MemoryType is the immutable min/max bound of a linear memory, expressed in
// WebAssembly pages.
type MemoryType struct {
	MinPages uint32
	MaxPages uint32
}

// Validate checks the MemoryType invariant: MinPages <= MaxPages, and both
// representable in a host uintptr (always true for a uint32 on any host this
// package supports, but asserted explicitly per spec.md §4.1's
// precondition).
func (t MemoryType) Validate() error {
	if t.MinPages > t.MaxPages {
		return fmt.Errorf("%w: min_pages %d > max_pages %d", ErrInvalidType, t.MinPages, t.MaxPages)
	}
	if uint64(t.MaxPages) > math.MaxUint32 {
		return fmt.Errorf("%w: max_pages %d not representable in a host-pointer-sized unsigned integer", ErrInvalidType, t.MaxPages)
	}
	return nil
}

// reservationLayout is computed once per Create and describes the byte
// extent of a memory's reservation: the usable region (end_offset) plus the
// trailing guard region, expressed in both bytes and host pages.
type reservationLayout struct {
	endOffset       uint64 // reservation size in bytes, excluding guard pages
	hostPageLog2    uint32
	hostPagesOfData uint64 // end_offset / host page size
	hostPagesGuard  uint64 // guard region / host page size
}

// newReservationLayout computes the layout for a fresh reservation. It fails
// (ok=false) only when the host cannot honor the 8GiB reservation contract;
// see DESIGN.md's resolution of the 32-bit hosts open question.
func newReservationLayout() (reservationLayout, bool) {
	if !platform.Is64BitHost() {
		return reservationLayout{}, false
	}
	log2 := platform.HostPageSizeLog2()
	if log2 > wasmPageSizeLog2 {
		panic(fmt.Sprintf("wasmmem: host page size 2^%d exceeds the WebAssembly page size", log2))
	}
	endOffset := reservationBytes64
	hostPagesOfData := endOffset >> log2
	return reservationLayout{
		endOffset:       endOffset,
		hostPageLog2:    log2,
		hostPagesOfData: hostPagesOfData,
		hostPagesGuard:  numGuardHostPages,
	}, true
}

// wasmPagesToHostPages converts a count of WebAssembly pages into the
// equivalent count of host pages, using the precomputed
// wasm_page/host_page = 2^k ratio (k = wasmPageSizeLog2 - hostPageLog2).
func (l reservationLayout) wasmPagesToHostPages(wasmPages uint32) uint64 {
	k := wasmPageSizeLog2 - l.hostPageLog2
	return uint64(wasmPages) << k
}
