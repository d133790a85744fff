package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeContract(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()
	data := []byte("BSPN\x01\x00\x00\x00 rotated matrix payload")

	t.Run("PutOpen", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "in/a.bsm", data))

		blob, err := store.Open(ctx, "in/a.bsm")
		require.NoError(t, err)
		defer blob.Close()
		require.Equal(t, int64(len(data)), blob.Size())

		buf := make([]byte, 4)
		n, err := blob.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "BSPN", string(buf))

		n, err = blob.ReadAt(ctx, make([]byte, 10), int64(len(data)-3))
		assert.Equal(t, 3, n)
		assert.ErrorIs(t, err, io.EOF)

		rc, err := blob.ReadRange(ctx, 9, 7)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, "rotated", string(got))

		all, err := io.ReadAll(NewReader(ctx, blob))
		require.NoError(t, err)
		assert.Equal(t, data, all)
	})

	t.Run("CreateVisibleOnClose", func(t *testing.T) {
		w, err := store.Create(ctx, "out/b.bsm")
		require.NoError(t, err)
		_, err = w.Write(data[:10])
		require.NoError(t, err)
		_, err = w.Write(data[10:])
		require.NoError(t, err)
		require.NoError(t, w.Sync())
		require.NoError(t, w.Close())

		got, err := ReadAll(ctx, store, "out/b.bsm")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "in/c.bsm", []byte("old")))
		require.NoError(t, store.Put(ctx, "in/c.bsm", []byte("newer")))

		got, err := ReadAll(ctx, store, "in/c.bsm")
		require.NoError(t, err)
		assert.Equal(t, "newer", string(got))
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "in/")
		require.NoError(t, err)
		assert.Equal(t, []string{"in/a.bsm", "in/c.bsm"}, names)

		names, err = store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"in/a.bsm", "in/c.bsm", "out/b.bsm"}, names)
	})

	t.Run("DeleteAndNotFound", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "in/c.bsm"))
		require.NoError(t, store.Delete(ctx, "in/c.bsm"))

		_, err := store.Open(ctx, "in/c.bsm")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = ReadAll(ctx, store, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	storeContract(t, NewLocalStore(t.TempDir()))
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, s, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	blob, err := s.Open(ctx, "x")
	require.NoError(t, err)
	_, ok := blob.(Mappable)
	assert.True(t, ok)
}

func TestLocalStore_InvalidNames(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	for _, name := range []string{"../escape", "/abs/path", ""} {
		_, err := s.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, s.Put(ctx, name, nil), ErrInvalidName, name)
	}
}

func TestLocalStore_NoRoot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "matrix.bmp")
	require.NoError(t, os.WriteFile(path, []byte("BM"), 0o600))

	s := NewLocalStore("")
	got, err := ReadAll(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(got))

	_, err = s.Open(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLocalStore_NoPartialFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStore(root)

	w, err := s.Create(ctx, "pending.bsz")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	_, err = s.Open(ctx, "pending.bsz")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	names, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pending.bsz"}, names)
}

func TestLocalBlob_Mapped(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())
	require.NoError(t, s.Put(ctx, "m", []byte("mapped")))

	blob, err := s.Open(ctx, "m")
	require.NoError(t, err)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "mapped", string(data))

	require.NoError(t, blob.Close())
	_, err = m.Bytes()
	assert.Error(t, err)
}

type readAtOnly struct{ Blob }

func TestNewReader_SectionFallback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, "x", []byte("streamed through ReadAt")))

	blob, err := s.Open(ctx, "x")
	require.NoError(t, err)

	// Hiding Bytes forces the ReadAt path.
	r := NewReader(ctx, readAtOnly{blob})
	_, isMapped := r.(interface{ Len() int })
	assert.False(t, isMapped)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "streamed through ReadAt", string(got))
}
