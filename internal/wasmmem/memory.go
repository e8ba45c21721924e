package wasmmem

import (
	"fmt"
	"sync/atomic"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/platform"
)

// state is the memory instance's position in the Uninitialized -> Live ->
// Torn state machine from spec.md §4.4.
type state int32

const (
	stateUninitialized state = iota
	stateLive
	stateTorn
)

// MemoryInstance is a single linear memory: its type, its reservation, its
// current committed page count, its stable base pointer, and the id it was
// assigned by its owning compartment.
//
// MemoryInstance is owned by exactly one Compartment. The compartment field
// is a non-owning, weak back-reference set when the memory is bound to a
// slot; teardown goes through Compartment.CloseMemory and does not read it,
// and it never participates in the memory's own lifetime.
type MemoryInstance struct {
	Type MemoryType

	baseAddress uintptr
	layout      reservationLayout

	// numPages is read by ValidatedRange's callers and written by
	// Grow/Shrink without synchronization beyond what the caller already
	// provides (spec.md §5: the core does not serialize concurrent
	// grow/shrink on the same memory).
	numPages uint32

	id          uint32
	compartment *Compartment

	lifecycle int32 // atomic, see state consts above
}

// EndOffset is the reservation size in bytes, excluding guard pages.
func (m *MemoryInstance) EndOffset() uint64 { return m.layout.endOffset }

// BaseAddress is the host pointer to the first byte of the reservation.
// Stable for the memory's entire Live-state lifetime.
func (m *MemoryInstance) BaseAddress() uintptr { return m.baseAddress }

// ID is the compartment-local dense index assigned at registration.
func (m *MemoryInstance) ID() uint32 { return m.id }

// NumPages returns the current committed WebAssembly page count.
func (m *MemoryInstance) NumPages() uint32 { return atomic.LoadUint32(&m.numPages) }

func (m *MemoryInstance) ownsAddress(p uintptr) bool {
	if atomic.LoadInt32(&m.lifecycle) != int32(stateLive) {
		return false
	}
	return p >= m.baseAddress && p < m.baseAddress+uintptr(m.layout.endOffset)
}

// createMemory implements spec.md §4.1's Create. It is unexported: callers
// go through Compartment.CreateMemory, which additionally performs slot
// assignment and publication into memory_bases.
func createMemory(typ MemoryType) (*MemoryInstance, error) {
	if err := typ.Validate(); err != nil {
		return nil, err
	}

	layout, ok := newReservationLayout()
	if !ok {
		return nil, ErrUnsupportedHost
	}

	base, ok := platform.ReserveVirtualPages(layout.hostPagesOfData + layout.hostPagesGuard)
	if !ok {
		return nil, ErrReservation
	}

	m := &MemoryInstance{
		Type:        typ,
		baseAddress: base,
		layout:      layout,
		numPages:    0,
		lifecycle:   int32(stateUninitialized),
	}

	if prev := m.grow(typ.MinPages); prev < 0 {
		// Undo: free the reservation, nothing was published anywhere yet.
		platform.ReleaseVirtualPages(base, layout.hostPagesOfData+layout.hostPagesGuard)
		return nil, fmt.Errorf("%w: committing initial %d pages", ErrCommit, typ.MinPages)
	}

	atomic.StoreInt32(&m.lifecycle, int32(stateLive))
	registerMemory(m)
	return m, nil
}

// cloneMemoryShape creates a fresh reservation matching source's type and
// current committed page count. It does not copy contents (a collaborator
// concern per spec.md §4.1) and does not bind an id; Compartment.Clone
// handles id binding via insertAt.
func cloneMemoryShape(source *MemoryInstance) (*MemoryInstance, error) {
	clone, err := createMemory(source.Type)
	if err != nil {
		return nil, err
	}
	wantPages := source.NumPages()
	if wantPages > clone.NumPages() {
		if prev := clone.grow(wantPages - clone.NumPages()); prev < 0 {
			clone.close()
			return nil, fmt.Errorf("%w: matching source's %d committed pages", ErrCommit, wantPages)
		}
	} else if wantPages < clone.NumPages() {
		if prev := clone.shrink(clone.NumPages() - wantPages); prev < 0 {
			clone.close()
			return nil, fmt.Errorf("%w: matching source's %d committed pages", ErrSizeBounds, wantPages)
		}
	}
	return clone, nil
}

// Grow grows the memory by n WebAssembly pages. Returns the previous
// num_pages on success, or -1 on failure. See spec.md §4.1 for the ordered
// failure conditions.
func (m *MemoryInstance) Grow(n uint32) int64 {
	return m.grow(n)
}

func (m *MemoryInstance) grow(n uint32) int64 {
	current := m.NumPages()
	if n == 0 {
		return int64(current) // idempotent no-op, spec.md "Laws"
	}
	if n > m.Type.MaxPages {
		return -1
	}
	if current > m.Type.MaxPages-n {
		return -1
	}

	offset := m.layout.wasmPagesToHostPages(current)
	hostPages := m.layout.wasmPagesToHostPages(n)
	if !platform.CommitVirtualPages(m.baseAddress+uintptr(offset<<m.layout.hostPageLog2), hostPages) {
		return -1
	}

	atomic.StoreUint32(&m.numPages, current+n)
	return int64(current)
}

// Shrink shrinks the memory by n WebAssembly pages. Returns the previous
// num_pages on success, or -1 on failure.
//
// Order matters (spec.md §4.1): num_pages is decremented before the vacated
// pages are decommitted, so no observer can see num_pages still reflecting
// pages whose backing has already been released.
func (m *MemoryInstance) Shrink(n uint32) int64 {
	return m.shrink(n)
}

func (m *MemoryInstance) shrink(n uint32) int64 {
	current := m.NumPages()
	if n == 0 {
		return int64(current)
	}
	if n > current {
		return -1
	}
	if current-n < m.Type.MinPages {
		return -1
	}

	atomic.StoreUint32(&m.numPages, current-n)

	offset := m.layout.wasmPagesToHostPages(current - n)
	hostPages := m.layout.wasmPagesToHostPages(n)
	platform.DecommitVirtualPages(m.baseAddress+uintptr(offset<<m.layout.hostPageLog2), hostPages)
	return int64(current)
}

// UnmapPages decommits a contiguous run of WebAssembly pages entirely
// inside [0, num_pages) without changing num_pages. Preconditions are
// asserted (fatal), per spec.md's Error Handling Design: this is a
// precondition violation, not a recoverable error.
//
// The upper bound check is page_index+n <= num_pages (not the source's
// strict "<", which forbade unmapping the last page — see spec.md §9).
func (m *MemoryInstance) UnmapPages(pageIndex, n uint32) {
	current := m.NumPages()
	if n == 0 {
		panic("wasmmem: UnmapPages requires n > 0")
	}
	if pageIndex >= current {
		panic(fmt.Sprintf("wasmmem: UnmapPages page_index %d out of range [0, %d)", pageIndex, current))
	}
	if n > current-pageIndex { // pageIndex+n > current, without uint32 wrap-around
		panic(fmt.Sprintf("wasmmem: UnmapPages range [%d, %d) exceeds num_pages %d", pageIndex, pageIndex+n, current))
	}

	offset := m.layout.wasmPagesToHostPages(pageIndex)
	hostPages := m.layout.wasmPagesToHostPages(n)
	platform.DecommitVirtualPages(m.baseAddress+uintptr(offset<<m.layout.hostPageLog2), hostPages)
}

// ValidatedRange translates a (memory, offset, length) triple into a raw
// host pointer, or reports failure via ok=false (the core returns this as a
// bool; callers that must trap rather than branch raise the access
// violation themselves — see spec.md §4.2 and §7).
//
// Validation is against the reservation (end_offset), not num_pages*65536:
// that gap is what lets compiled code elide explicit bounds checks and rely
// on guard/decommitted-region faults instead.
//
// The nil-handle check comes first, before any field is read — spec.md §9
// corrects the source's ordering, which dereferenced base_address before
// checking for a nil memory handle.
func ValidatedRange(m *MemoryInstance, offset, length uint64) (ptr uintptr, ok bool) {
	if m == nil {
		return 0, false
	}
	start := m.baseAddress + uintptr(platform.SaturateToBound(offset, m.layout.endOffset))
	if start < m.baseAddress {
		return 0, false
	}
	end := start + uintptr(length)
	if end < start { // overflow
		return 0, false
	}
	if end > m.baseAddress+uintptr(m.layout.endOffset) {
		return 0, false
	}
	return start, true
}

// close tears the memory down: decommit all committed pages, release the
// reservation, and remove it from the global registry. It is unexported:
// the only safe entry point is Compartment.CloseMemory, which first nulls
// memory_bases and removes the slot under the compartment mutex (spec.md
// §4.4: "after deregistration, external handles must not be
// dereferenced"). A bare *MemoryInstance offers no such mutex, so it must
// not be closeable directly — that would let two holders of the same
// pointer race to double-free the reservation.
//
// The CAS only succeeds out of Live; every other case (never reached Live,
// or already Torn) is a no-op, so calling this twice for the same memory
// (e.g. a rollback path racing a concurrent CloseMemory) never double-frees.
func (m *MemoryInstance) close() {
	if !atomic.CompareAndSwapInt32(&m.lifecycle, int32(stateLive), int32(stateTorn)) {
		return
	}
	deregisterMemory(m)
	current := m.NumPages()
	if current > 0 {
		platform.DecommitVirtualPages(m.baseAddress, m.layout.wasmPagesToHostPages(current))
	}
	platform.ReleaseVirtualPages(m.baseAddress, m.layout.hostPagesOfData+m.layout.hostPagesGuard)
}
