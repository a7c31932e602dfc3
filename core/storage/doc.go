// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so the download provider
// can be tested with core/storage/mocks. Downloaded chapters live under one prefix per
// chapter directory; RemovePrefix deletes such a directory in a single batch request.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
//	n, err := storage.RemovePrefix(ctx, client, cfg.Storage.Bucket, "Title/Ch.1 - 1234/")
package storage
