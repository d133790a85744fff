package bitspin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/blobstore"
	"github.com/hupe1980/bitspin/internal/tier"
)

func TestTranslateError(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("Deadline", func(t *testing.T) {
		err := translateError(fmt.Errorf("acquire worker: %w", context.DeadlineExceeded))
		assert.ErrorIs(t, err, ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("NotFound", func(t *testing.T) {
		err := translateError(fmt.Errorf("open: %w", blobstore.ErrNotFound))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		cause := bitmatrix.ValidateDimension(96)
		err := translateError(cause)

		var ide *ErrInvalidDimension
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, 96, ide.N)
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("TierConfig", func(t *testing.T) {
		cfg := tier.DefaultConfig()
		cfg.MaxTier = 99
		err := translateError(cfg.Validate())

		var itc *ErrInvalidTierConfig
		require.ErrorAs(t, err, &itc)
		assert.Equal(t, "max tier 99 must be in [0, 47]", itc.Reason)
		assert.ErrorIs(t, err, tier.ErrInvalidConfig)
		assert.Equal(t, "invalid tier config: max tier 99 must be in [0, 47]", err.Error())
	})

	t.Run("PassThrough", func(t *testing.T) {
		other := errors.New("boom")
		assert.Equal(t, other, translateError(other))
	})
}

func TestErrMismatch(t *testing.T) {
	err := &ErrMismatch{N: 64, Mismatched: 3, Row: 1, Col: 2}
	assert.Equal(t, "incorrectly rotated 64x64 matrix: 3 cells differ, first at (1, 2)", err.Error())
}
