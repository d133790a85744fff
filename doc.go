// Package bitspin rotates square bit matrices by 90 degrees clockwise, in
// place, and provides a harness that times a rotation and checks it against a
// simple cell-by-cell reference.
//
// The rotation itself lives in package rotate; package bitmatrix holds the
// matrix type, the reference rotation and mismatch diffs. This package ties
// them to storage, codecs and resource limits.
//
// # Quick Start
//
//	t := bitspin.New(bitspin.WithLogLevel(slog.LevelInfo))
//
//	// One random 4096 x 4096 matrix.
//	res, _ := t.RunGenerated(ctx, 4096)
//	fmt.Println(res.Passed, res.Duration)
//
//	// Rotate a stored picture and write the result.
//	res, _ := t.RunFile(ctx, "in.bmp", "out.bmp")
//
// # Harness
//
// RunCorrectness rotates random matrices from 64 up to 10000 bits wide, three
// times each, and checks every round. RunTiers finds the largest matrix the
// rotation handles below a per-tier timeout: tiers grow by 4% from 26624,
// are probed linearly for a few tiers (tolerating a limited number of slow
// ones, called blowthroughs) and then by binary search.
//
// # Storage
//
// Matrices are read and written through a blobstore.BlobStore: local files
// (memory mapped), memory, Amazon S3 or MinIO. Files are BMP pictures or
// checksummed containers, raw or compressed with zstd or lz4 (see package
// codec).
//
// # Resource limits
//
// WithResources bounds the bytes of matrix memory a Tester holds at once, the
// number of sizes a correctness sweep rotates concurrently and the read and
// write bandwidth to the blob store.
package bitspin
