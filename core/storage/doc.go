// Package storage provides access to S3 compatible object storage.
//
// It wraps the MinIO Go client behind a small Client interface so callers
// can be tested against core/storage/mocks. The manager keeps the approved
// workshop item list in a bucket, which lets several server hosts share one
// curated list.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	err = storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region)
//	obj, err := client.GetObject(ctx, cfg.Bucket, "approved.csv", minio.GetObjectOptions{})
package storage
