package storage

import (
	"fmt"

	"github.com/NMGRL/trayclassifier/internal/config"
)

// New creates a BlobStore from configuration. The "inline" driver keeps
// blobs in the database and needs no external store, so it yields nil.
// Parameters:
//   - cfg: storage configuration.
// Returns:
//   - BlobStore: external store, or nil for the inline driver.
//   - error: non-nil if the driver is unknown or the client cannot be built.
func New(cfg *config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", "inline":
		return nil, nil
	case "s3":
		return NewS3Store(&S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
