package bitspin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/blobstore"
	"github.com/hupe1980/bitspin/internal/tier"
	"github.com/hupe1980/bitspin/rotate"
)

var (
	// ErrTimeout is returned when a run's context deadline passes before the
	// run could finish.
	ErrTimeout = errors.New("bitspin: timed out")

	// ErrNotFound is returned when a matrix does not exist in the blob store.
	ErrNotFound = errors.New("bitspin: matrix not found")

	// ErrInvalidArgument is returned for run configurations that cannot be
	// executed.
	ErrInvalidArgument = errors.New("bitspin: invalid argument")
)

// ErrMismatch reports an engine rotation that differs from the reference.
type ErrMismatch struct {
	N int
	// Mismatched is the number of cells that differ.
	Mismatched uint64
	// Row and Col locate the first differing cell in row-major order.
	Row int
	Col int
}

func (e *ErrMismatch) Error() string {
	return fmt.Sprintf("incorrectly rotated %dx%d matrix: %d cells differ, first at (%d, %d)",
		e.N, e.N, e.Mismatched, e.Row, e.Col)
}

// ErrInvalidDimension indicates a matrix dimension that is not a positive
// multiple of 64.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	N     int
	cause error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.N)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

// ErrInvalidTierConfig indicates a tier search configuration rejected before
// any matrix was allocated.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidTierConfig struct {
	Reason string
	cause  error
}

func (e *ErrInvalidTierConfig) Error() string {
	return "invalid tier config: " + e.Reason
}

func (e *ErrInvalidTierConfig) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var id *bitmatrix.ErrInvalidDimension
	if errors.As(err, &id) {
		return &ErrInvalidDimension{N: id.N, cause: err}
	}
	if errors.Is(err, tier.ErrInvalidConfig) {
		reason := strings.TrimPrefix(err.Error(), tier.ErrInvalidConfig.Error()+": ")
		return &ErrInvalidTierConfig{Reason: reason, cause: err}
	}

	return err
}

// checkDimension validates n with the same rules rotate applies.
func checkDimension(n int) error {
	if err := bitmatrix.ValidateDimension(n); err != nil {
		return translateError(fmt.Errorf("%w: %w", rotate.ErrInvalidDimension, err))
	}
	return nil
}
