// Package blobstore provides named storage for encoded bit matrices.
//
// A test run reads its input matrix and writes its rotated output through a
// BlobStore, so the same run works against a local directory, memory, or an
// object store. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem; reads are served from a read-only mmap
//   - MemoryStore: in-process map, used by tests and generated runs
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Reading a whole blob
//
// Codecs consume an io.Reader; NewReader adapts any Blob, using the mapped
// bytes directly when the blob implements Mappable:
//
//	blob, err := store.Open(ctx, "input.bmp")
//	if err != nil { ... }
//	defer blob.Close()
//	m, err := codec.BMP{}.Decode(blobstore.NewReader(ctx, blob))
package blobstore
