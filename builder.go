package wasmjit

import (
	"fmt"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/wasmmem"
)

// MemoryBuilder is a way to describe a linear memory's bounds in Go before
// creating it, mirroring wazero's ModuleBuilder.ExportMemory/
// ExportMemoryWithMax without the function/table/global exports that belong
// to the out-of-scope instantiation-pipeline collaborator.
//
// Ex. Below defines a memory with a minimum of 1 page and no explicit max
// (so it grows up to the Runtime's configured limit), then creates it in a
// fresh compartment:
//
//	mem, _ := wasmjit.NewMemoryBuilder().WithMinPages(1).Build(compartment)
//
// Note: MemoryBuilder is mutable. Each WithXXX method returns the same
// instance for chaining, matching wazero's ModuleBuilder contract.
type MemoryBuilder interface {
	// WithMinPages sets the initial and minimum size, in WebAssembly pages.
	// Defaults to zero.
	WithMinPages(uint32) MemoryBuilder

	// WithMaxPages bounds the memory's maximum size, in WebAssembly pages.
	// If never called, the effective max is the Runtime's configured
	// MemoryLimitPages.
	WithMaxPages(uint32) MemoryBuilder

	// Build creates the described memory inside compartment, applying the
	// owning Runtime's RuntimeConfig.
	Build(compartment *Compartment) (*wasmmem.MemoryInstance, error)
}

type memoryBuilder struct {
	minPages uint32
	maxPages *uint32
}

// NewMemoryBuilder starts a MemoryBuilder with no minimum and no explicit
// maximum.
func NewMemoryBuilder() MemoryBuilder {
	return &memoryBuilder{}
}

// WithMinPages implements MemoryBuilder.WithMinPages
func (b *memoryBuilder) WithMinPages(minPages uint32) MemoryBuilder {
	b.minPages = minPages
	return b
}

// WithMaxPages implements MemoryBuilder.WithMaxPages
func (b *memoryBuilder) WithMaxPages(maxPages uint32) MemoryBuilder {
	b.maxPages = &maxPages
	return b
}

// Build implements MemoryBuilder.Build
func (b *memoryBuilder) Build(compartment *Compartment) (*wasmmem.MemoryInstance, error) {
	if compartment == nil {
		return nil, fmt.Errorf("wasmjit: Build requires a non-nil compartment")
	}
	m, err := compartment.NewMemory(b.minPages, b.maxPages)
	if err != nil {
		return nil, fmt.Errorf("wasmjit: memory[min=%d]: %w", b.minPages, err)
	}
	return m, nil
}
