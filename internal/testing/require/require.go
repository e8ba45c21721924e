// Package require wraps github.com/stretchr/testify/require with the
// subset of assertions this module's tests actually use, matching the
// indirection the real tetratelabs/wazero carries under the same import
// path (internal/testing/require) rather than importing testify directly
// from every _test.go file.
package require

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Equal fails the test if expected != actual.
func Equal(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, expected, actual, msgAndArgs...)
}

// NoError fails the test if err != nil.
func NoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// Error fails the test if err == nil.
func Error(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
}

// EqualError fails the test unless err's message equals errString.
func EqualError(t *testing.T, err error, errString string) {
	t.Helper()
	require.EqualError(t, err, errString)
}

// True fails the test if value is false.
func True(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, value, msgAndArgs...)
}

// False fails the test if value is true.
func False(t *testing.T, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	require.False(t, value, msgAndArgs...)
}

// Zero fails the test if value is not the zero value for its type.
func Zero(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.Zero(t, value, msgAndArgs...)
}

// Same fails the test unless expected and actual point at the same object.
func Same(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.Same(t, expected, actual, msgAndArgs...)
}

// NotSame fails the test if expected and actual point at the same object.
func NotSame(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotSame(t, expected, actual, msgAndArgs...)
}

// Nil fails the test unless value is nil.
func Nil(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.Nil(t, value, msgAndArgs...)
}

// NotNil fails the test if value is nil.
func NotNil(t *testing.T, value interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	require.NotNil(t, value, msgAndArgs...)
}

// Panics fails the test unless f panics.
func Panics(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	require.Panics(t, f, msgAndArgs...)
}

// NotPanics fails the test if f panics.
func NotPanics(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	require.NotPanics(t, f, msgAndArgs...)
}
