package testutil

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/rotate"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// FillBytes fills dst with random bytes.
// Locks only once per call.
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bitmatrix.FillRandom(dst, r.rand)
}

// Block returns a block of random words.
func (r *RNG) Block() rotate.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b rotate.Block
	for i := range b {
		b[i] = r.rand.Uint64()
	}
	return b
}

// Matrix returns a random n x n matrix. It fails the test if n is invalid.
func (r *RNG) Matrix(tb testing.TB, n int) *bitmatrix.BitMatrix {
	tb.Helper()
	m, err := bitmatrix.New(n)
	if err != nil {
		tb.Fatalf("testutil: %v", err)
	}
	r.FillBytes(m.Bytes())
	return m
}

// SingleBit returns an n x n matrix with only (row, col) set.
func SingleBit(tb testing.TB, n, row, col int) *bitmatrix.BitMatrix {
	tb.Helper()
	m, err := bitmatrix.New(n)
	if err != nil {
		tb.Fatalf("testutil: %v", err)
	}
	m.Set(row, col, true)
	return m
}

// Filled returns an n x n matrix with every cell set to v.
func Filled(tb testing.TB, n int, v bool) *bitmatrix.BitMatrix {
	tb.Helper()
	m, err := bitmatrix.New(n)
	if err != nil {
		tb.Fatalf("testutil: %v", err)
	}
	m.Fill(v)
	return m
}

// Rotate180 returns a copy of m with (r, c) moved to (N-1-r, N-1-c).
func Rotate180(m *bitmatrix.BitMatrix) *bitmatrix.BitMatrix {
	out := m.Clone()
	out.Fill(false)
	n := m.N()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if m.Get(r, c) {
				out.Set(n-1-r, n-1-c, true)
			}
		}
	}
	return out
}
