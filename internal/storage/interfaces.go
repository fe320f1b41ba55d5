package storage

import (
	"context"
	"io"
)

// RenditionStorage defines the interface for persisted image renditions
type RenditionStorage interface {
	// Upload stores a rendition under key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves a rendition as a stream
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a rendition; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if a rendition exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a rendition
	GetURL(key string) string

	// Health checks storage backend health
	Health(ctx context.Context) error
}
