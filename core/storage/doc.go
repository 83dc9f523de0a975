// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client and is used to keep JSON backups of variant
// baselines before destructive saves. Both AWS S3 and self-hosted MinIO work.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions in unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
