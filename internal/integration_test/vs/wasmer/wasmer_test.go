//go:build cgo

// wasmer-go wraps the Wasmer C API and therefore requires cgo.

package wasmer

import (
	"testing"

	wasmergo "github.com/wasmerio/wasmer-go/wasmer"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/integration_test/vs"
	"github.com/BitEnterprise/wasm-jit-prototype/internal/wasmmem"
)

type refMemory struct {
	mem *wasmergo.Memory
}

func (r *refMemory) PageSize() uint32 {
	return uint32(r.mem.Size())
}

func (r *refMemory) Grow(delta uint32) (previous uint32, ok bool) {
	prev := wasmergo.Pages(r.mem.Size())
	if !r.mem.Grow(wasmergo.Pages(delta)) {
		return 0, false
	}
	return uint32(prev), true
}

func (r *refMemory) Close() {}

func newWasmerMemory(t testing.TB, typ wasmmem.MemoryType) vs.ReferenceMemory {
	t.Helper()
	store := wasmergo.NewStore(wasmergo.NewEngine())
	limits, err := wasmergo.NewLimits(typ.MinPages, typ.MaxPages)
	if err != nil {
		t.Fatalf("wasmer: NewLimits: %v", err)
	}
	mem := wasmergo.NewMemory(store, wasmergo.NewMemoryType(limits))
	return &refMemory{mem: mem}
}

func TestGrow_AgreesWithWasmer(t *testing.T) {
	typ := wasmmem.MemoryType{MinPages: 1, MaxPages: 4}
	vs.RunGrowSequence(t, newWasmerMemory, typ, []uint32{1, 1, 0, 10, 2})
}
