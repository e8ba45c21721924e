package wasmjit

import (
	"testing"

	"github.com/BitEnterprise/wasm-jit-prototype/internal/testing/require"
)

func TestRuntimeConfig(t *testing.T) {
	tests := []struct {
		name     string
		with     func(RuntimeConfig) RuntimeConfig
		expected RuntimeConfig
	}{
		{
			name: "WithMemoryLimitPages",
			with: func(c RuntimeConfig) RuntimeConfig {
				return c.WithMemoryLimitPages(1)
			},
			expected: &runtimeConfig{
				memoryLimitPages: 1,
			},
		},
		{
			name: "WithMemoryCapacityPages nil is a no-op",
			with: func(c RuntimeConfig) RuntimeConfig {
				return c.WithMemoryCapacityPages(nil)
			},
			expected: &runtimeConfig{},
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			input := &runtimeConfig{}
			rc := tc.with(input)
			require.Equal(t, tc.expected, rc)
			// WithXXX must not mutate the receiver.
			require.Equal(t, &runtimeConfig{}, input)
		})
	}
}

func TestRuntimeConfig_Defaults(t *testing.T) {
	c := NewRuntimeConfig().(*runtimeConfig)
	require.Equal(t, MemoryLimitPages, c.memoryLimitPages)
	require.Equal(t, uint32(5), c.memoryCapacityPages(5, nil))
}

func TestRuntimeConfig_MemoryType(t *testing.T) {
	c := NewRuntimeConfig().(*runtimeConfig)

	typ, capacity, err := c.memoryType(1, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(1), typ.MinPages)
	require.Equal(t, MemoryLimitPages, typ.MaxPages)
	require.Equal(t, uint32(1), capacity) // default capacity function returns min

	max := uint32(10)
	typ, _, err = c.memoryType(1, &max)
	require.NoError(t, err)
	require.Equal(t, uint32(10), typ.MaxPages)

	tooBig := MemoryLimitPages + 1
	_, _, err = c.memoryType(1, &tooBig)
	require.Error(t, err)

	badMax := uint32(0)
	_, _, err = c.memoryType(1, &badMax)
	require.Error(t, err)
}

func TestRuntimeConfig_MemoryType_AppliesConfiguredCapacity(t *testing.T) {
	c := NewRuntimeConfig().WithMemoryCapacityPages(func(minPages uint32, maxPages *uint32) uint32 {
		return minPages + 2
	}).(*runtimeConfig)

	max := uint32(10)
	_, capacity, err := c.memoryType(1, &max)
	require.NoError(t, err)
	require.Equal(t, uint32(3), capacity)
}

func TestRuntimeConfig_WithMemoryCapacityPages_OutOfBounds(t *testing.T) {
	c := NewRuntimeConfig().WithMemoryCapacityPages(func(minPages uint32, maxPages *uint32) uint32 {
		return minPages - 1 // deliberately invalid: below min
	}).(*runtimeConfig)

	_, _, err := c.memoryType(5, nil)
	require.Error(t, err)
}
