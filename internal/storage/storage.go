// Package storage abstracts where exported backup documents and media files
// are kept. Two backends exist: the local filesystem and any S3-compatible
// object store.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
)

var (
	// ErrObjectNotFound is returned when the requested key does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrEmptyKey is returned when an operation is attempted with an empty key.
	ErrEmptyKey = errors.New("object key cannot be empty")
	// ErrInvalidKey is returned when a key tries to escape the storage root.
	ErrInvalidKey = errors.New("invalid object key")
)

// Backend stores and retrieves opaque blobs by key.
type Backend interface {
	// Put writes the blob under the given key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get reads the blob stored under the given key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the blob stored under the given key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by the configuration.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.Backup.Storage {
	case config.StorageBackendS3:
		return NewS3(&cfg.Storage)
	case config.StorageBackendLocal:
		return NewLocal(cfg.Backup.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backup.Storage)
	}
}
