package wasmmem

import (
	"testing"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/testing/require"
)

func TestCompartment_AssignsLowestFreeID(t *testing.T) {
	c := NewCompartment()
	m0, err := c.CreateMemory(MemoryType{MinPages: 0, MaxPages: 1})
	require.NoError(t, err)
	m1, err := c.CreateMemory(MemoryType{MinPages: 0, MaxPages: 1})
	require.NoError(t, err)
	require.Equal(t, uint32(0), m0.ID())
	require.Equal(t, uint32(1), m1.ID())

	c.CloseMemory(m0)
	m2, err := c.CreateMemory(MemoryType{MinPages: 0, MaxPages: 1})
	require.NoError(t, err)
	require.Equal(t, uint32(0), m2.ID(), "id 0 should be reused after close")

	c.CloseMemory(m1)
	c.CloseMemory(m2)
}

func TestCompartment_MemoryBase_NulledAfterClose(t *testing.T) {
	c := NewCompartment()
	m, err := c.CreateMemory(MemoryType{MinPages: 1, MaxPages: 1})
	require.NoError(t, err)
	id := m.ID()

	require.Equal(t, m.BaseAddress(), c.MemoryBase(id))
	c.CloseMemory(m)
	require.Zero(t, c.MemoryBase(id))
}

func TestCompartment_Stats(t *testing.T) {
	c := NewCompartment()
	m1, err := c.CreateMemory(MemoryType{MinPages: 2, MaxPages: 10})
	require.NoError(t, err)
	m2, err := c.CreateMemory(MemoryType{MinPages: 3, MaxPages: 10})
	require.NoError(t, err)
	defer c.CloseMemory(m1)
	defer c.CloseMemory(m2)

	stats := c.Stats()
	require.Equal(t, 2, stats.LiveMemories)
	require.Equal(t, uint64(5), stats.CommittedPages)
}

func TestCompartment_RemoveOrFail_PanicsOnDoubleClose(t *testing.T) {
	c := NewCompartment()
	m, err := c.CreateMemory(MemoryType{MinPages: 1, MaxPages: 1})
	require.NoError(t, err)
	id := m.ID()
	c.CloseMemory(m)

	require.Panics(t, func() { c.removeOrFail(id) })
}

func TestCompartment_MemoryLookup(t *testing.T) {
	c := NewCompartment()
	m, err := c.CreateMemory(MemoryType{MinPages: 1, MaxPages: 1})
	require.NoError(t, err)
	defer c.CloseMemory(m)

	require.Same(t, m, c.Memory(m.ID()))
	require.Nil(t, c.Memory(999))
}
