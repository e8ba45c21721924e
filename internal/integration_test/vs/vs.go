// Package vs cross-validates this module's Grow page accounting against
// independent, cgo-backed WebAssembly engines (Shrink has no counterpart in
// those engines and is not compared). Unlike the core's own
// tests, which only check internal/wasmmem's bookkeeping against itself,
// these compare our MemoryInstance against a real engine's wasm.Memory
// driven through the identical sequence of operations, so a shared
// misunderstanding of the spec (e.g. an off-by-one in page count after
// Grow) would show up as a mismatch here rather than passing silently.
package vs

import (
	"testing"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/testing/require"
	"github.com/BitEnterprise/wasm-jit-prototype/internal/wasmmem"
)

// ReferenceMemory is the minimal shape a foreign engine's linear memory
// needs to expose for comparison: current size in pages, and a grow
// operation returning the previous size (or false on failure, mirroring the
// WebAssembly memory.grow instruction's -1-on-failure result repurposed as
// a bool since these bindings already translate -1 into an error).
type ReferenceMemory interface {
	PageSize() uint32
	Grow(delta uint32) (previous uint32, ok bool)
	Close()
}

// NewReferenceMemory builds a foreign engine's memory of the given type.
type NewReferenceMemory func(t testing.TB, typ wasmmem.MemoryType) ReferenceMemory

// RunGrowSequence drives both ours and the reference engine's memory through
// the same sequence of grow deltas and asserts their page counts and
// success/failure results agree at every step.
func RunGrowSequence(t *testing.T, newRef NewReferenceMemory, typ wasmmem.MemoryType, deltas []uint32) {
	compartment := wasmmem.NewCompartment()
	ours, err := compartment.CreateMemory(typ)
	require.NoError(t, err)
	defer compartment.CloseMemory(ours)

	ref := newRef(t, typ)
	defer ref.Close()

	require.Equal(t, ref.PageSize(), ours.NumPages())

	for i, delta := range deltas {
		wantPrev, wantOK := ref.Grow(delta)
		gotPrev := ours.Grow(delta)

		if wantOK {
			require.True(t, gotPrev >= 0, "step %d: delta=%d: expected success", i, delta)
			require.Equal(t, int64(wantPrev), gotPrev, "step %d: delta=%d", i, delta)
		} else {
			require.True(t, gotPrev < 0, "step %d: delta=%d: expected failure", i, delta)
		}
		require.Equal(t, ref.PageSize(), ours.NumPages(), "step %d: delta=%d", i, delta)
	}
}
