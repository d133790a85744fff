package rotate

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrInvalidDimension is returned when n is not a positive multiple of 64.
	ErrInvalidDimension = errors.New("rotate: dimension must be a positive multiple of 64")
	// ErrBufferSize is returned when the buffer does not hold exactly n*n/8 bytes.
	ErrBufferSize = errors.New("rotate: buffer length must be n*n/8")
)

// Func is the signature shared by every rotator: rotate the n x n matrix in
// buf by 90 degrees clockwise, in place.
type Func func(buf []byte, n int)

// wordBytes is the width of a word in bytes.
const wordBytes = 8

// Validate reports whether buf and n satisfy the precondition of Rotate.
func Validate(buf []byte, n int) error {
	if n <= 0 || n%BlockSize != 0 {
		return ErrInvalidDimension
	}
	if len(buf) != n*(n/8) {
		return ErrBufferSize
	}
	return nil
}

// RotateChecked validates its arguments and then calls Rotate.
func RotateChecked(buf []byte, n int) error {
	if err := Validate(buf, n); err != nil {
		return err
	}
	Rotate(buf, n)
	return nil
}

// Rotate turns the n x n bit matrix in buf 90 degrees clockwise, in place.
//
// n must be a positive multiple of 64 and len(buf) must be n*n/8; neither is
// checked. Rotate is not safe for concurrent use on the same buffer.
func Rotate(buf []byte, n int) {
	size := GridSize(n)

	var scratch [4]Block
	var offsets [4]int

	for r := 0; r < (size+1)/2; r++ {
		for c := 0; c < size/2; c++ {
			quad := Quadrant(r, c, size)
			for i, p := range quad {
				offsets[i] = WordOffset(p.Row, p.Col, size)
				load(&scratch[i], buf, offsets[i], size)
				Transpose(&scratch[i])
			}
			for i := range scratch {
				storeReversed(&scratch[i], buf, offsets[(i+1)%4], size)
			}
		}
	}

	if size&1 == 1 {
		mid := size / 2
		off := WordOffset(mid, mid, size)
		load(&scratch[0], buf, off, size)
		Transpose(&scratch[0])
		storeReversed(&scratch[0], buf, off, size)
	}
}

// load copies the block whose first row is word off into b.
func load(b *Block, buf []byte, off, stride int) {
	for k := range b {
		i := (off + k*stride) * wordBytes
		b[k] = binary.LittleEndian.Uint64(buf[i : i+wordBytes])
	}
}

// storeReversed writes b into the block whose first row is word off, last
// row first.
func storeReversed(b *Block, buf []byte, off, stride int) {
	for k := range b {
		i := (off + k*stride) * wordBytes
		binary.LittleEndian.PutUint64(buf[i:i+wordBytes], b[BlockSize-1-k])
	}
}
