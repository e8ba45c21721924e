package wasmmem

import "errors"

// Sentinel errors, wrapped with context via fmt.Errorf("%w", ...) at the
// call site so callers can still errors.Is against these.
var (
	// ErrReservation is returned when the host could not satisfy a virtual
	// address space reservation (out of address space).
	ErrReservation = errors.New("wasmmem: failed to reserve virtual address space")

	// ErrCommit is returned when the host could not back committed pages
	// with physical memory.
	ErrCommit = errors.New("wasmmem: failed to commit pages")

	// ErrSizeBounds is returned when matching a clone's committed page count
	// would violate the memory's type bounds (min_pages/max_pages). Grow and
	// Shrink themselves report a bounds violation as -1, not as an error.
	ErrSizeBounds = errors.New("wasmmem: size would violate type bounds")

	// ErrIDExhausted is returned when a compartment's slot table has no
	// free id to assign to a new memory.
	ErrIDExhausted = errors.New("wasmmem: compartment slot ids exhausted")

	// ErrIDTaken is returned by Compartment.Clone (via insertAt) when the
	// requested id is already occupied.
	ErrIDTaken = errors.New("wasmmem: slot id already occupied")

	// ErrUnsupportedHost is returned when Create is called on a host that
	// cannot satisfy the 8GiB reservation contract. See DESIGN.md.
	ErrUnsupportedHost = errors.New("wasmmem: 32-bit hosts are not supported")

	// ErrInvalidType is returned when a MemoryType fails validation.
	ErrInvalidType = errors.New("wasmmem: invalid memory type")
)
