// Package minio stores encoded bit matrices on MinIO and other
// S3-compatible servers (Ceph, Garage, SeaweedFS) through the MinIO client.
//
//	client, err := minio.NewClient(minio.ClientOptions{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := minio.NewStore(client, "matrices", "runs/")
//
// Unlike blobstore/s3 it needs no AWS configuration chain, which suits
// air-gapped benchmark hosts.
package minio
