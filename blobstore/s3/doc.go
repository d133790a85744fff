// Package s3 stores encoded bit matrices in Amazon S3.
//
// Reads use ranged GetObject requests; uploads go through the SDK's
// multipart upload manager with CRC32C integrity checks, so multi-gigabyte
// tier matrices stream without being buffered whole.
//
//	client, err := s3.NewClient(ctx, s3.ClientOptions{Region: "eu-central-1"})
//	store := s3.NewStore(client, "my-bucket", "matrices/")
package s3
