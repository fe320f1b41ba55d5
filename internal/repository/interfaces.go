package repository

import (
	"context"
	"time"

	"catalogd/internal/models"
)

// CatalogRepository defines the interface for catalog record operations
type CatalogRepository interface {
	// Store saves a new asset record
	Store(ctx context.Context, asset *models.ImageAsset) error

	// Get retrieves an asset by ID
	Get(ctx context.Context, id string) (*models.ImageAsset, error)

	// Update replaces an existing asset record
	Update(ctx context.Context, asset *models.ImageAsset) error

	// Delete removes an asset record
	Delete(ctx context.Context, id string) error

	// Exists checks if an asset record exists
	Exists(ctx context.Context, id string) (bool, error)

	// List retrieves all asset records; filtering and pagination happen
	// in the service layer
	List(ctx context.Context) ([]*models.ImageAsset, error)

	// Health checks repository health
	Health(ctx context.Context) error

	// Close closes the repository connection
	Close() error
}

// ListingCache defines the interface for caching rendered listing pages
type ListingCache interface {
	// SetListing stores a serialized listing under key with TTL
	SetListing(ctx context.Context, key, value string, ttl time.Duration) error

	// GetListing retrieves a cached listing; returns ErrCacheMiss when
	// absent or expired
	GetListing(ctx context.Context, key string) (string, error)

	// InvalidateListings drops every cached listing
	InvalidateListings(ctx context.Context) error
}

// Repository combines record storage and listing caching, the way both
// backends expose them
type Repository interface {
	CatalogRepository
	ListingCache
}
