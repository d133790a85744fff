package bitmatrix

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferSize is returned when a buffer does not hold N*N/8 bytes.
	ErrBufferSize = errors.New("bitmatrix: buffer length must be N*N/8")
	// ErrSizeMismatch is returned when two matrices of different dimension are compared.
	ErrSizeMismatch = errors.New("bitmatrix: matrices differ in dimension")
)

// MaxDimension is the largest accepted N. Its matrix takes 8 GiB.
const MaxDimension = 1 << 18

// ErrInvalidDimension indicates a dimension that is not a positive multiple of
// 64 up to MaxDimension.
type ErrInvalidDimension struct {
	N int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("bitmatrix: invalid dimension %d: must be a positive multiple of 64 up to %d", e.N, MaxDimension)
}

// ValidateDimension returns an *ErrInvalidDimension unless n is a positive
// multiple of 64 no larger than MaxDimension.
func ValidateDimension(n int) error {
	if n <= 0 || n%64 != 0 || n > MaxDimension {
		return &ErrInvalidDimension{N: n}
	}
	return nil
}
