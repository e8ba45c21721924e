package wasmmem

import (
	"fmt"
	"sync"
)

// Compartment is an isolation domain owning a coherent set of memories. Per
// spec.md §3/§6, it exposes a dense id -> *MemoryInstance slot table
// (add/insertAt/remove) and a parallel raw array of base addresses,
// memoryBases, that generated code is expected to read without locking.
//
// Only the functions/tables/globals collaborators are out of scope (spec.md
// §1): this type owns exactly the memories assigned to it.
type Compartment struct {
	mu sync.Mutex

	slots       []*MemoryInstance // id -> memory, nil where free
	memoryBases []uintptr         // id -> base_address, read without locking by generated code
}

// NewCompartment returns an empty Compartment.
func NewCompartment() *Compartment {
	return &Compartment{}
}

// CreateMemory implements spec.md §4.1's Create: reserve, commit min_pages,
// register globally, then assign a slot id and publish the base address.
// Returns nil on any failure (reservation, commit, or id exhaustion).
func (c *Compartment) CreateMemory(typ MemoryType) (*MemoryInstance, error) {
	m, err := createMemory(typ)
	if err != nil {
		return nil, err
	}

	id, err := c.assign(m)
	if err != nil {
		m.close()
		return nil, err
	}
	m.id = id
	m.compartment = c
	return m, nil
}

// Clone implements spec.md §4.1's Clone: a fresh memory instance matching
// source's type and committed page count, bound at the *same id* source has
// in its own compartment. Fails if that id is already taken in c.
func (c *Compartment) Clone(source *MemoryInstance) (*MemoryInstance, error) {
	clone, err := cloneMemoryShape(source)
	if err != nil {
		return nil, err
	}
	if err := c.insertAt(source.id, clone); err != nil {
		clone.close()
		return nil, err
	}
	clone.id = source.id
	clone.compartment = c
	return clone, nil
}

// assign binds m to the lowest free id, preferring reuse of a free slot
// (freed by removeOrFail, or left empty below an id insertAt filled) over
// growing the table.
func (c *Compartment) assign(m *MemoryInstance) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.slots {
		if s == nil {
			c.slots[i] = m
			c.memoryBases[i] = m.baseAddress
			return uint32(i), nil
		}
	}

	id := uint32(len(c.slots))
	if id == ^uint32(0) {
		return 0, ErrIDExhausted
	}
	c.slots = append(c.slots, m)
	c.memoryBases = append(c.memoryBases, m.baseAddress)
	return id, nil
}

// insertAt binds m at exactly id, failing if that id is already occupied.
// Used by Clone to preserve the id generated code was compiled against.
func (c *Compartment) insertAt(id uint32, m *MemoryInstance) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for uint32(len(c.slots)) <= id {
		c.slots = append(c.slots, nil)
		c.memoryBases = append(c.memoryBases, 0)
	}
	if c.slots[id] != nil {
		return fmt.Errorf("%w: id %d", ErrIDTaken, id)
	}
	c.slots[id] = m
	c.memoryBases[id] = m.baseAddress
	return nil
}

// removeOrFail unpublishes id: nulls memoryBases[id] and clears the slot,
// making id available for reuse. Panics if id was not occupied, since that
// indicates a caller-side bookkeeping bug (a precondition violation, not a
// recoverable error, per spec.md §7).
func (c *Compartment) removeOrFail(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id >= uint32(len(c.slots)) || c.slots[id] == nil {
		panic(fmt.Sprintf("wasmmem: remove_or_fail: slot %d not occupied", id))
	}
	c.slots[id] = nil
	c.memoryBases[id] = 0
}

// CloseMemory tears m down: removes it from this compartment's slot table
// (nulling memory_bases[id] under the compartment mutex, before any
// deregistration) and then releases its reservation.
//
// spec.md §5's ordering requirement — "the base is nulled under the
// compartment mutex only after all generated code referencing the id is
// quiesced" — is the caller's responsibility; by the time CloseMemory is
// called, the caller must already have quiesced any compiled code that
// might read memoryBases[id].
func (c *Compartment) CloseMemory(m *MemoryInstance) {
	c.removeOrFail(m.id)
	m.close()
}

// MemoryBase returns the base address published for id, or 0 if the slot is
// free or out of range. This is the unlocked read generated code performs;
// exposed here so tests can assert invariant 4 without reaching into
// unexported fields via reflection.
func (c *Compartment) MemoryBase(id uint32) uintptr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id >= uint32(len(c.memoryBases)) {
		return 0
	}
	return c.memoryBases[id]
}

// Memory returns the memory instance bound to id, or nil.
func (c *Compartment) Memory(id uint32) *MemoryInstance {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id >= uint32(len(c.slots)) {
		return nil
	}
	return c.slots[id]
}

// Stats summarizes committed pages and live memory count across this
// compartment's slot table. A small read-only accessor in the same spirit
// as gvisor's MemoryManager accessors: lets a caller or test assert
// invariants without reaching into unexported fields.
type Stats struct {
	LiveMemories   int
	CommittedPages uint64
}

// Stats computes a snapshot of this compartment's memories.
func (c *Compartment) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s Stats
	for _, m := range c.slots {
		if m == nil {
			continue
		}
		s.LiveMemories++
		s.CommittedPages += uint64(m.NumPages())
	}
	return s
}
