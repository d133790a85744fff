// Package testutil provides testing utilities for bitspin.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and helpers for building random and
// hand-crafted bit matrices and blocks.
//
//	rng := testutil.NewRNG(seed)
//	m := rng.Matrix(t, 256)
//	blk := rng.Block()
package testutil
