package wasmjit

import (
	"fmt"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/wasmmem"
)

// Runtime is the entry point for allocating compartments and the memories
// inside them. It holds no mutable state beyond its RuntimeConfig; all
// lifecycle state lives on the Compartment and MemoryInstance it hands out.
type Runtime interface {
	// NewCompartment returns a fresh, empty Compartment bound to this
	// Runtime's configuration.
	NewCompartment() *Compartment
}

type runtime struct {
	config *runtimeConfig
}

// NewRuntime returns a Runtime that creates memories according to config.
func NewRuntime(config RuntimeConfig) Runtime {
	rc, ok := config.(*runtimeConfig)
	if !ok || rc == nil {
		rc = defaultConfig
	}
	return &runtime{config: rc}
}

// NewCompartment implements Runtime.NewCompartment
func (r *runtime) NewCompartment() *Compartment {
	return &Compartment{config: r.config, inner: wasmmem.NewCompartment()}
}

// Compartment is the public handle over internal/wasmmem.Compartment,
// applying this Runtime's RuntimeConfig (memory limit, capacity function)
// before delegating to the core. It is the entry point generated code's
// module-instantiation pipeline would call into to create a memory — that
// pipeline itself is a collaborator this package does not implement.
type Compartment struct {
	config *runtimeConfig
	inner  *wasmmem.Compartment
}

// NewMemory creates a memory with the given min/max pages (max may be nil
// to mean "up to the configured limit"), applying RuntimeConfig validation
// before delegating to the core Create operation, then grows it to the
// configured WithMemoryCapacityPages beyond MinPages (a no-op if the
// configured capacity function returns MinPages, the default).
func (c *Compartment) NewMemory(minPages uint32, maxPages *uint32) (*wasmmem.MemoryInstance, error) {
	typ, capacity, err := c.config.memoryType(minPages, maxPages)
	if err != nil {
		return nil, err
	}
	m, err := c.inner.CreateMemory(typ)
	if err != nil {
		return nil, fmt.Errorf("wasmjit: create memory: %w", err)
	}
	if capacity > minPages {
		if prev := m.Grow(capacity - minPages); prev < 0 {
			c.inner.CloseMemory(m)
			return nil, fmt.Errorf("wasmjit: committing configured capacity of %d pages: %w", capacity, wasmmem.ErrCommit)
		}
	}
	return m, nil
}

// Clone binds a new memory in c at the same id source has in its own
// compartment, matching source's committed page count. See
// internal/wasmmem.Compartment.Clone.
func (c *Compartment) Clone(source *wasmmem.MemoryInstance) (*wasmmem.MemoryInstance, error) {
	clone, err := c.inner.Clone(source)
	if err != nil {
		return nil, fmt.Errorf("wasmjit: clone memory: %w", err)
	}
	return clone, nil
}

// Close tears m down and removes it from c's slot table.
func (c *Compartment) Close(m *wasmmem.MemoryInstance) {
	c.inner.CloseMemory(m)
}

// MemoryBase returns the base address published for id — the unsynchronized
// read generated code performs against memory_bases.
func (c *Compartment) MemoryBase(id uint32) uintptr {
	return c.inner.MemoryBase(id)
}

// Stats summarizes c's live memories and their committed pages.
func (c *Compartment) Stats() wasmmem.Stats {
	return c.inner.Stats()
}
