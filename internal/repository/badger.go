package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"catalogd/internal/models"
	"catalogd/pkg/logger"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	badgerAssetPrefix   = "asset:metadata:"
	badgerListingPrefix = "public:listing:"
)

// BadgerRepository implements the Repository interface using an embedded
// BadgerDB, holding both catalog records and cached listings
type BadgerRepository struct {
	db        *badger.DB
	directory string
}

// Ensure BadgerRepository implements the Repository interface
var _ Repository = (*BadgerRepository)(nil)

// NewBadgerRepository opens (creating if needed) the BadgerDB directory
func NewBadgerRepository(directory string) (*BadgerRepository, error) {
	logger.Info("Initializing BadgerDB catalog repository",
		zap.String("directory", directory))

	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}

	opts := badger.DefaultOptions(directory)
	opts.Logger = &badgerLogger{} // Custom logger to suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	logger.Info("BadgerDB catalog repository initialized successfully")
	return &BadgerRepository{db: db, directory: directory}, nil
}

// Store saves a new asset record
func (b *BadgerRepository) Store(ctx context.Context, asset *models.ImageAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerAssetPrefix+asset.ID), data)
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to store asset",
			zap.String("asset_id", asset.ID),
			zap.Error(err))
		return fmt.Errorf("failed to store asset: %w", err)
	}

	logger.DebugWithContext(ctx, "Asset stored successfully",
		zap.String("asset_id", asset.ID))
	return nil
}

// Get retrieves an asset by ID
func (b *BadgerRepository) Get(ctx context.Context, id string) (*models.ImageAsset, error) {
	var asset models.ImageAsset

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerAssetPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &asset)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, models.NotFoundError{Resource: "image", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &asset, nil
}

// Update replaces an existing asset record
func (b *BadgerRepository) Update(ctx context.Context, asset *models.ImageAsset) error {
	exists, err := b.Exists(ctx, asset.ID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NotFoundError{Resource: "image", ID: asset.ID}
	}
	return b.Store(ctx, asset)
}

// Delete removes an asset record
func (b *BadgerRepository) Delete(ctx context.Context, id string) error {
	exists, err := b.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return models.NotFoundError{Resource: "image", ID: id}
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerAssetPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	logger.DebugWithContext(ctx, "Asset deleted",
		zap.String("asset_id", id))
	return nil
}

// Exists checks if an asset record exists
func (b *BadgerRepository) Exists(ctx context.Context, id string) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(badgerAssetPrefix + id))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check asset existence: %w", err)
	}
	return true, nil
}

// List retrieves all asset records via a prefix scan
func (b *BadgerRepository) List(ctx context.Context) ([]*models.ImageAsset, error) {
	assets := []*models.ImageAsset{}

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerAssetPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var asset models.ImageAsset
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &asset)
			})
			if err != nil {
				return err
			}
			assets = append(assets, &asset)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return assets, nil
}

// SetListing stores a serialized listing with TTL
func (b *BadgerRepository) SetListing(ctx context.Context, key, value string, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerListingPrefix+key), []byte(value)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	return nil
}

// GetListing retrieves a cached listing; BadgerDB drops expired entries
// on read, so a stale entry surfaces as a miss
func (b *BadgerRepository) GetListing(ctx context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerListingPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cached listing: %w", err)
	}
	return value, nil
}

// InvalidateListings drops every cached listing entry
func (b *BadgerRepository) InvalidateListings(ctx context.Context) error {
	keys := [][]byte{}

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerListingPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan cached listings: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached listings: %w", err)
	}

	logger.DebugWithContext(ctx, "Listing cache invalidated",
		zap.Int("entries", len(keys)))
	return nil
}

// Health checks repository health
func (b *BadgerRepository) Health(ctx context.Context) error {
	if b.db.IsClosed() {
		return fmt.Errorf("BadgerDB is closed")
	}
	return nil
}

// Close closes the repository connection
func (b *BadgerRepository) Close() error {
	logger.Info("Closing BadgerDB catalog repository")
	return b.db.Close()
}

// badgerLogger routes BadgerDB's internal logging through zap
type badgerLogger struct{}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error(fmt.Sprintf("BadgerDB: "+format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf("BadgerDB: "+format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	// Suppress info logs to reduce noise
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	// Suppress debug logs to reduce noise
}
