// Package wasmjit is the public facade over the linear memory manager
// described in SPEC_FULL.md. It mirrors wazero's RuntimeConfig/
// ModuleBuilder immutable-options shape, narrowed to what this core owns:
// memory types and compartments. The instruction decoder, JIT/AOT compiler,
// and module instantiation pipeline are out-of-scope collaborators (see
// spec.md §1) and are not implemented here.
package wasmjit

import (
	"fmt"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/wasmmem"
)

// MemoryLimitPages is the default upper bound on a memory's max pages: the
// largest value the WebAssembly 1.0 binary format can encode, 65536 pages
// (4GiB). See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#memory-instances%E2%91%A0
const MemoryLimitPages = uint32(1) << 16

// RuntimeConfig controls how memories are bounded and sized at creation
// time, with the default implementation as NewRuntimeConfig.
//
// Note: RuntimeConfig is immutable. Each WithXXX function returns a new
// instance including the corresponding change, exactly like wazero's
// RuntimeConfig.
type RuntimeConfig interface {
	// WithMemoryLimitPages limits the maximum number of pages a memory can
	// define, from MemoryLimitPages (4GiB) down to the input.
	//
	// * If a MemoryType defines no max, Compartment.NewMemory sets max to
	//   this limit.
	// * If a MemoryType defines a max larger than this limit, NewMemory
	//   fails.
	WithMemoryLimitPages(uint32) RuntimeConfig

	// WithMemoryCapacityPages is a function that determines the total number
	// of pages to commit at creation (min_pages plus any over-commit), given
	// the min and possibly-nil max defined by the caller. The default returns
	// min, i.e. no speculative over-commit.
	//
	// NewMemory errs if the function returns a value lower than min or
	// greater than the effective max (the caller's max, or
	// WithMemoryLimitPages when the caller defines none).
	WithMemoryCapacityPages(func(minPages uint32, maxPages *uint32) uint32) RuntimeConfig
}

type runtimeConfig struct {
	memoryLimitPages    uint32
	memoryCapacityPages func(minPages uint32, maxPages *uint32) uint32
}

// NewRuntimeConfig returns the default RuntimeConfig: limit pages at
// MemoryLimitPages, and commit exactly min_pages at creation.
func NewRuntimeConfig() RuntimeConfig {
	ret := *defaultConfig // copy
	return &ret
}

var defaultConfig = &runtimeConfig{
	memoryLimitPages:    MemoryLimitPages,
	memoryCapacityPages: func(minPages uint32, maxPages *uint32) uint32 { return minPages },
}

// WithMemoryLimitPages implements RuntimeConfig.WithMemoryLimitPages
func (c *runtimeConfig) WithMemoryLimitPages(memoryLimitPages uint32) RuntimeConfig {
	ret := *c // copy
	ret.memoryLimitPages = memoryLimitPages
	return &ret
}

// WithMemoryCapacityPages implements RuntimeConfig.WithMemoryCapacityPages
func (c *runtimeConfig) WithMemoryCapacityPages(capacityPages func(minPages uint32, maxPages *uint32) uint32) RuntimeConfig {
	if capacityPages == nil {
		return c // instead of erring, to allow unconditional chaining.
	}
	ret := *c // copy
	ret.memoryCapacityPages = capacityPages
	return &ret
}

// validateAndApplyCapacity validates a caller-supplied min/max against the
// configured limit, and returns the effective max the memory should be
// created with plus the number of pages WithMemoryCapacityPages says should
// be committed up front (capacity is always in [minPages, effectiveMax]).
func (c *runtimeConfig) validateAndApplyCapacity(minPages uint32, maxPages *uint32) (effectiveMax, capacity uint32, err error) {
	if maxPages == nil {
		effectiveMax = c.memoryLimitPages
	} else {
		effectiveMax = *maxPages
		if effectiveMax > c.memoryLimitPages {
			return 0, 0, fmt.Errorf("wasmjit: max %d pages exceeds the configured limit of %d pages", effectiveMax, c.memoryLimitPages)
		}
		if effectiveMax < minPages {
			return 0, 0, fmt.Errorf("wasmjit: max %d pages is less than min %d pages", effectiveMax, minPages)
		}
	}

	capacity = c.memoryCapacityPages(minPages, maxPages)
	if capacity < minPages || capacity > effectiveMax {
		return 0, 0, fmt.Errorf("wasmjit: memory capacity function returned %d pages, outside [%d, %d]", capacity, minPages, effectiveMax)
	}
	return effectiveMax, capacity, nil
}

// memoryType builds the wasmmem.MemoryType this config would create for the
// given min/max, applying WithMemoryLimitPages, plus the total page count
// WithMemoryCapacityPages says should be committed at creation.
func (c *runtimeConfig) memoryType(minPages uint32, maxPages *uint32) (typ wasmmem.MemoryType, capacity uint32, err error) {
	effectiveMax, capacity, err := c.validateAndApplyCapacity(minPages, maxPages)
	if err != nil {
		return wasmmem.MemoryType{}, 0, err
	}
	return wasmmem.MemoryType{MinPages: minPages, MaxPages: effectiveMax}, capacity, nil
}
