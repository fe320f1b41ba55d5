package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	redisAssetPrefix   = "asset:metadata:"
	redisListingPrefix = "public:listing:"
)

// RedisRepository implements the Repository interface on a Redis server
type RedisRepository struct {
	client redis.Cmdable
	config *config.RedisConfig
}

// Ensure RedisRepository implements the Repository interface
var _ Repository = (*RedisRepository)(nil)

// NewRedisRepository creates a new Redis repository
func NewRedisRepository(cfg *config.RedisConfig) (*RedisRepository, error) {
	logger.Info("Initializing Redis catalog repository",
		zap.String("url", cfg.URL),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize))

	// Parse Redis URL and create client
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	// Override with config values
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB
	opt.PoolSize = cfg.PoolSize
	opt.DialTimeout = cfg.Timeout
	opt.ReadTimeout = cfg.Timeout
	opt.WriteTimeout = cfg.Timeout

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis catalog repository initialized successfully")
	return &RedisRepository{client: client, config: cfg}, nil
}

// Store saves a new asset record
func (r *RedisRepository) Store(ctx context.Context, asset *models.ImageAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}

	if err := r.client.Set(ctx, redisAssetPrefix+asset.ID, data, 0).Err(); err != nil {
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
func (r *RedisRepository) Get(ctx context.Context, id string) (*models.ImageAsset, error) {
	data, err := r.client.Get(ctx, redisAssetPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, models.NotFoundError{Resource: "image", ID: id}
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	var asset models.ImageAsset
	if err := json.Unmarshal([]byte(data), &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset: %w", err)
	}
	return &asset, nil
}

// Update replaces an existing asset record
func (r *RedisRepository) Update(ctx context.Context, asset *models.ImageAsset) error {
	exists, err := r.Exists(ctx, asset.ID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NotFoundError{Resource: "image", ID: asset.ID}
	}
	return r.Store(ctx, asset)
}

// Delete removes an asset record
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, redisAssetPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	if deleted == 0 {
		return models.NotFoundError{Resource: "image", ID: id}
	}

	logger.DebugWithContext(ctx, "Asset deleted",
		zap.String("asset_id", id))
	return nil
}

// Exists checks if an asset record exists
func (r *RedisRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.client.Exists(ctx, redisAssetPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check asset existence: %w", err)
	}
	return count > 0, nil
}

// List retrieves all asset records via a cursor scan
func (r *RedisRepository) List(ctx context.Context) ([]*models.ImageAsset, error) {
	assets := []*models.ImageAsset{}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisAssetPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan assets: %w", err)
		}

		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Result()
			if err != nil {
				if err == redis.Nil {
					continue // deleted between scan and read
				}
				return nil, fmt.Errorf("failed to read asset %s: %w", key, err)
			}

			var asset models.ImageAsset
			if err := json.Unmarshal([]byte(data), &asset); err != nil {
				return nil, fmt.Errorf("failed to unmarshal asset %s: %w", key, err)
			}
			assets = append(assets, &asset)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return assets, nil
}

// SetListing stores a serialized listing with TTL
func (r *RedisRepository) SetListing(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, redisListingPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	return nil
}

// GetListing retrieves a cached listing; expiry is enforced by Redis
func (r *RedisRepository) GetListing(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, redisListingPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cached listing: %w", err)
	}
	return value, nil
}

// InvalidateListings drops every cached listing entry
func (r *RedisRepository) InvalidateListings(ctx context.Context) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisListingPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached listings: %w", err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to invalidate cached listings: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	logger.DebugWithContext(ctx, "Listing cache invalidated",
		zap.Int("entries", deleted))
	return nil
}

// Health checks repository health
func (r *RedisRepository) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Close closes the repository connection
func (r *RedisRepository) Close() error {
	logger.Info("Closing Redis catalog repository")
	if closer, ok := r.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
