package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage stores banner images and returns the public URL they are served
// under. Delete accepts the same URL that Store returned.
type Storage interface {
	Store(ctx context.Context, filename string, content io.Reader) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// Backend selects a storage implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendS3    Backend = "s3"
)

// Config holds configuration for the storage backends.
type Config struct {
	Backend   Backend
	LocalPath string
	S3        S3Config
}

// S3Config holds configuration for the S3 backend.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// New creates a Storage from config.
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendS3:
		return NewS3Storage(cfg.S3)
	case BackendLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
