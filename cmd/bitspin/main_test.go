package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/codec"
)

func runArgs(t *testing.T, args ...string) (bool, string, error) {
	t.Helper()
	cfg := mustLoad(t, append([]string{"--color=false", "--log.level", "error"}, args...)...)
	require.NoError(t, validateConfig(cfg))

	var out bytes.Buffer
	passed, err := run(context.Background(), cfg, &out)
	return passed, out.String(), err
}

func TestRun_Generated(t *testing.T) {
	passed, out, err := runArgs(t, "-t", "generated", "-N", "512", "--store.kind", "memory")
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Contains(t, out, "Your time taken:")
	assert.True(t, strings.HasSuffix(out, "Result: PASS\n"))
}

func TestRun_File(t *testing.T) {
	dir := t.TempDir()

	m, err := bitmatrix.New(64)
	require.NoError(t, err)
	m.Set(0, 0, true)
	var buf bytes.Buffer
	require.NoError(t, codec.BMP{}.Encode(&buf, m))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.bmp"), buf.Bytes(), 0o600))

	passed, out, err := runArgs(t, "-t", "file", "-f", "in.bmp", "-o", "out.bsl", "--store.root", dir)
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Contains(t, out, "Wrote out.bsl")

	f, err := os.Open(filepath.Join(dir, "out.bsl"))
	require.NoError(t, err)
	defer f.Close()
	got, err := codec.LZ4{}.Decode(f)
	require.NoError(t, err)
	assert.True(t, got.Get(0, 63))
	assert.Equal(t, 1, got.Count())
}

func TestRun_FileMissing(t *testing.T) {
	_, _, err := runArgs(t, "-t", "file", "-f", "missing.bmp", "--store.root", t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Correctness(t *testing.T) {
	passed, out, err := runArgs(t, "-t", "correctness", "--correctness.max_n", "300", "--seed", "9")
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Contains(t, out, "Test 11 :\tRotated 256x256")
	assert.True(t, strings.HasSuffix(out, "Congrats! You pass all correctness tests\n"))
}

func TestRun_Tiers(t *testing.T) {
	passed, out, err := runArgs(t, "-t", "tiers",
		"--tiers.start_n", "64", "--tiers.growth", "1.5",
		"-M", "4", "-l", "2", "--tiers.tier_timeout", "1h",
	)
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Contains(t, out, "You reached the highest tier you specified!")
	assert.True(t, strings.HasSuffix(out, "Result: reached tier 4\n"))
}
