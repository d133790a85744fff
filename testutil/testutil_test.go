package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.Uint64(), b.Uint64())
	assert.Equal(t, a.Block(), b.Block())

	a.Reset()
	b.Reset()
	assert.True(t, a.Matrix(t, 128).Equal(b.Matrix(t, 128)))
	assert.Equal(t, uint64(4711), a.Seed())
}

func TestRNG_Matrix(t *testing.T) {
	rng := NewRNG(1)
	m := rng.Matrix(t, 192)

	require.Equal(t, 192, m.N())
	// A random 192x192 matrix with no set bit is not a realistic outcome.
	assert.Greater(t, m.Count(), 0)
	assert.Less(t, m.Count(), 192*192)
}

func TestFixtures(t *testing.T) {
	m := SingleBit(t, 64, 3, 5)
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.Get(3, 5))

	f := Filled(t, 128, true)
	assert.Equal(t, 128*128, f.Count())

	r := Rotate180(m)
	assert.True(t, r.Get(60, 58))
	assert.Equal(t, 1, r.Count())
}
