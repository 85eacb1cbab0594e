// Package storage provides the optional external home for image blobs.
// The default catalog configuration keeps encoded bytes inline in the
// images table; configuring the "s3" driver moves them to an
// S3-compatible bucket keyed by content hash.
package storage

import (
	"context"
	"io"
)

// BlobStore defines the operations the catalog needs from an external
// blob backend.
type BlobStore interface {
	// Upload stores an object under key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves the object stored under key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// EnsureBucket creates the backing bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}

// ObjectKey builds the canonical object key for an image content hash.
func ObjectKey(hash string) string {
	return "images/" + hash + ".tiff"
}
