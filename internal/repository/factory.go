package repository

import (
	"fmt"

	"catalogd/internal/config"
	"catalogd/pkg/logger"

	"go.uber.org/zap"
)

// NewRepository creates the catalog repository selected by REPOSITORY_TYPE
func NewRepository(cfg *config.Config) (Repository, error) {
	logger.Info("Initializing catalog repository",
		zap.String("type", cfg.Repository.Type))

	switch cfg.Repository.Type {
	case "redis":
		return NewRedisRepository(&cfg.Redis)

	case "badger":
		return NewBadgerRepository(cfg.Repository.Directory)

	default:
		return nil, fmt.Errorf("unsupported repository type: %s", cfg.Repository.Type)
	}
}
