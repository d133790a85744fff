package bitmatrix

import (
	"encoding/binary"
	"math/rand/v2"
)

// FillRandom fills dst with bytes drawn from r, eight at a time.
func FillRandom(dst []byte, r *rand.Rand) {
	i := 0
	for ; i+8 <= len(dst); i += 8 {
		binary.LittleEndian.PutUint64(dst[i:], r.Uint64())
	}
	if i < len(dst) {
		var tail [8]byte
		binary.LittleEndian.PutUint64(tail[:], r.Uint64())
		copy(dst[i:], tail[:])
	}
}

// Random returns an n x n matrix with cells drawn from r.
func Random(n int, r *rand.Rand) (*BitMatrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	FillRandom(m.data, r)
	return m, nil
}
