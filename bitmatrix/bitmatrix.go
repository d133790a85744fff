package bitmatrix

import (
	"bytes"
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/bitspin/internal/hash"
	"github.com/hupe1980/bitspin/internal/mem"
	"github.com/hupe1980/bitspin/rotate"
)

// BitMatrix is an N x N bit matrix backed by a packed byte buffer.
// It is not safe for concurrent mutation.
type BitMatrix struct {
	n    int
	data []byte
}

// New allocates a zeroed n x n matrix on a 64-byte aligned buffer.
func New(n int) (*BitMatrix, error) {
	if err := ValidateDimension(n); err != nil {
		return nil, err
	}
	return &BitMatrix{n: n, data: mem.AllocAligned(ByteLen(n))}, nil
}

// FromBytes wraps data as an n x n matrix without copying it.
func FromBytes(data []byte, n int) (*BitMatrix, error) {
	if err := ValidateDimension(n); err != nil {
		return nil, err
	}
	if len(data) != ByteLen(n) {
		return nil, ErrBufferSize
	}
	return &BitMatrix{n: n, data: data}, nil
}

// N returns the dimension of the matrix.
func (m *BitMatrix) N() int { return m.n }

// Bytes returns the backing buffer. Changes to it are visible to m.
func (m *BitMatrix) Bytes() []byte { return m.data }

// Get reports the cell at (row, col).
func (m *BitMatrix) Get(row, col int) bool {
	return Get(m.data, m.n, row, col)
}

// Set sets the cell at (row, col) to v.
func (m *BitMatrix) Set(row, col int, v bool) {
	Set(m.data, m.n, row, col, v)
}

// Fill sets every cell to v.
func (m *BitMatrix) Fill(v bool) {
	var b byte
	if v {
		b = 0xFF
	}
	for i := range m.data {
		m.data[i] = b
	}
}

// Count returns the number of set cells.
func (m *BitMatrix) Count() int {
	n := 0
	for _, b := range m.data {
		n += bits.OnesCount8(b)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *BitMatrix) Clone() *BitMatrix {
	data := mem.AllocAligned(len(m.data))
	copy(data, m.data)
	return &BitMatrix{n: m.n, data: data}
}

// Equal reports whether m and o have the same dimension and cells.
func (m *BitMatrix) Equal(o *BitMatrix) bool {
	return m.n == o.n && bytes.Equal(m.data, o.data)
}

// Checksum returns the CRC32C of the backing buffer.
func (m *BitMatrix) Checksum() uint32 {
	return hash.CRC32C(m.data)
}

// Rotate turns m 90 degrees clockwise with the block engine.
func (m *BitMatrix) Rotate() {
	rotate.Rotate(m.data, m.n)
}

// RotateReference turns m 90 degrees clockwise with the naive rotator.
func (m *BitMatrix) RotateReference() {
	RotateReference(m.data, m.n)
}

// Diff returns the flat indices (row*N + col) of every cell that differs
// between a and b.
func Diff(a, b *BitMatrix) (*roaring64.Bitmap, error) {
	if a.n != b.n {
		return nil, ErrSizeMismatch
	}

	diff := roaring64.New()
	stride := RowStride(a.n)
	for i := range a.data {
		x := a.data[i] ^ b.data[i]
		if x == 0 {
			continue
		}
		base := uint64(i/stride)*uint64(a.n) + uint64(i%stride)*8
		for x != 0 {
			// Highest set bit of the byte is its lowest column.
			col := bits.LeadingZeros8(x)
			diff.Add(base + uint64(col))
			x &^= 0x80 >> col
		}
	}
	return diff, nil
}

// Cell converts a flat index produced by Diff back into (row, col).
func Cell(index uint64, n int) (row, col int) {
	return int(index / uint64(n)), int(index % uint64(n))
}
