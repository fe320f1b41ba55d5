package storage

import (
	"fmt"

	"catalogd/internal/config"
	"catalogd/pkg/logger"

	"go.uber.org/zap"
)

// NewRenditionStorage creates the storage backend selected by STORAGE_TYPE
func NewRenditionStorage(cfg *config.Config) (RenditionStorage, error) {
	logger.Info("Initializing rendition storage",
		zap.String("type", cfg.Storage.Type))

	switch cfg.Storage.Type {
	case "local":
		return NewLocalStorage(&cfg.Storage)

	case "s3":
		return NewS3Storage(&cfg.S3)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
