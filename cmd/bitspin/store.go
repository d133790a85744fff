package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/bitspin/blobstore"
	"github.com/hupe1980/bitspin/blobstore/minio"
	"github.com/hupe1980/bitspin/blobstore/s3"
)

// newStore opens the blob store selected by cfg.
func newStore(ctx context.Context, cfg StoreConfig) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case storeLocal:
		return blobstore.NewLocalStore(cfg.Root), nil
	case storeMemory:
		return blobstore.NewMemoryStore(), nil
	case storeS3:
		client, err := s3.NewClient(ctx, s3.ClientOptions{
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return s3.NewStore(client, cfg.Bucket, cfg.Prefix), nil
	case storeMinIO:
		client, err := minio.NewClient(minio.ClientOptions{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Region:    cfg.Region,
			Secure:    cfg.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		store := minio.NewStore(client, cfg.Bucket, cfg.Prefix)
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio bucket %s: %w", cfg.Bucket, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Kind)
	}
}
