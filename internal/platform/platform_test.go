package platform

import (
	"testing"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/testing/require"
)

func TestHostPageSizeLog2_WithinWasmPageSize(t *testing.T) {
	log2 := HostPageSizeLog2()
	require.True(t, log2 <= 16, "host page size must not exceed the 65536-byte WebAssembly page size")
	require.Equal(t, HostPageSize(), uint64(1)<<log2)
}

func TestSaturateToBound(t *testing.T) {
	require.Equal(t, uint64(5), SaturateToBound(5, 10))
	require.Equal(t, uint64(10), SaturateToBound(15, 10))
	require.Equal(t, uint64(10), SaturateToBound(10, 10))
	// No overflow even when x is the max possible value.
	require.Equal(t, uint64(10), SaturateToBound(^uint64(0), 10))
}

func TestReserveCommitDecommitRelease(t *testing.T) {
	const n = 4
	base, ok := ReserveVirtualPages(n)
	require.True(t, ok)
	require.True(t, base != 0)

	require.True(t, CommitVirtualPages(base, n))
	DecommitVirtualPages(base, n)
	ReleaseVirtualPages(base, n)
}

func TestIs64BitHost(t *testing.T) {
	// CI targets amd64/arm64; this documents, rather than asserts a fixed
	// runtime fact about, the host this suite actually runs on.
	_ = Is64BitHost()
}
