package wasmjit

import (
	"testing"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/testing/require"
)

func TestRuntime_NewCompartment_NewMemory(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig().WithMemoryLimitPages(4))
	compartment := rt.NewCompartment()

	max := uint32(2)
	mem, err := compartment.NewMemory(1, &max)
	require.NoError(t, err)
	require.Equal(t, uint32(1), mem.NumPages())
	require.Equal(t, compartment.MemoryBase(mem.ID()), mem.BaseAddress())

	_, overLimitErr := compartment.NewMemory(1, func() *uint32 { v := uint32(5); return &v }())
	require.Error(t, overLimitErr)

	compartment.Close(mem)
	require.Zero(t, compartment.MemoryBase(mem.ID()))
}

func TestRuntime_NewMemory_AppliesConfiguredCapacity(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig().WithMemoryCapacityPages(func(minPages uint32, maxPages *uint32) uint32 {
		return minPages + 2
	}))
	compartment := rt.NewCompartment()

	mem, err := compartment.NewMemory(1, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(3), mem.NumPages())

	compartment.Close(mem)
}

func TestRuntime_Compartment_Clone(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig())
	compartment := rt.NewCompartment()

	mem, err := compartment.NewMemory(2, nil)
	require.NoError(t, err)

	other := rt.NewCompartment()
	clone, err := other.Clone(mem)
	require.NoError(t, err)
	require.Equal(t, mem.ID(), clone.ID())
	require.Equal(t, mem.NumPages(), clone.NumPages())
	require.True(t, clone.BaseAddress() != mem.BaseAddress())

	compartment.Close(mem)
	other.Close(clone)
}

func TestRuntime_Compartment_Stats(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig())
	compartment := rt.NewCompartment()

	mem1, err := compartment.NewMemory(1, nil)
	require.NoError(t, err)
	mem2, err := compartment.NewMemory(3, nil)
	require.NoError(t, err)

	stats := compartment.Stats()
	require.Equal(t, 2, stats.LiveMemories)
	require.Equal(t, uint64(4), stats.CommittedPages)

	compartment.Close(mem1)
	compartment.Close(mem2)

	stats = compartment.Stats()
	require.Equal(t, 0, stats.LiveMemories)
}

func TestMemoryBuilder_Build(t *testing.T) {
	rt := NewRuntime(NewRuntimeConfig())
	compartment := rt.NewCompartment()

	mem, err := NewMemoryBuilder().WithMinPages(1).WithMaxPages(3).Build(compartment)
	require.NoError(t, err)
	require.Equal(t, uint32(1), mem.NumPages())
	require.Equal(t, uint32(3), mem.Type.MaxPages)

	_, err = NewMemoryBuilder().WithMinPages(1).Build(nil)
	require.Error(t, err)

	compartment.Close(mem)
}
