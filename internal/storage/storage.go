package storage

import (
	"context"
	"fmt"
	"io"

	"inmobiliaria-backend/internal/config"
)

// ObjectStore is the object-storage capability used by the media flows.
// Keys are bucket-relative paths of the form "{propertyID}/{filename}".
type ObjectStore interface {
	// Put uploads the object at key, overwriting nothing (keys are unique by
	// construction upstream).
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// PublicURL returns the publicly reachable URL for key. The second return
	// is false when no public URL can be derived.
	PublicURL(key string) (string, bool)
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Open constructs an ObjectStore from configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "", "s3":
		return NewS3Store(ctx, cfg)
	case "memory":
		return NewMemoryStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
