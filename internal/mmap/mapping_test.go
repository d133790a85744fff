package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.bsm")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestOpen(t *testing.T) {
	content := []byte("BSPN header and payload")
	m, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.False(t, m.Writable())
	require.NoError(t, m.Advise(AccessSequential))

	buf := make([]byte, 6)
	n, err := m.ReadAt(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "header", string(buf))

	n, err = m.ReadAt(make([]byte, 10), int64(len(content)-3))
	assert.Equal(t, 3, n)
	assert.Equal(t, io.EOF, err)

	n, err = m.ReadAt(buf, 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestOpenEmptyAndMissing(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Size())
	require.NoError(t, m.Advise(AccessRandom))
	require.NoError(t, m.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMapAnon(t *testing.T) {
	const size = 1 << 20

	m, err := MapAnon(size)
	require.NoError(t, err)
	defer m.Close()

	assert.True(t, m.Writable())
	require.Len(t, m.Bytes(), size)

	data := m.Bytes()
	for i := 0; i < size; i += 4096 {
		require.Zero(t, data[i])
	}
	data[0], data[size-1] = 0xAB, 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
	assert.Equal(t, byte(0xCD), m.Bytes()[size-1])

	for _, p := range []AccessPattern{AccessDefault, AccessSequential, AccessRandom, AccessWillNeed} {
		require.NoError(t, m.Advise(p))
	}
}

func TestMapAnonSizes(t *testing.T) {
	_, err := MapAnon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	m, err := MapAnon(0)
	require.NoError(t, err)
	assert.Empty(t, m.Bytes())
	require.NoError(t, m.Close())
}

func TestClose(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}
