package service

import (
	"context"
	"time"

	"catalogd/internal/models"
	"catalogd/internal/repository"
	"catalogd/internal/storage"
	"catalogd/pkg/logger"

	"go.uber.org/zap"
)

// Version is set at build time
var Version = "dev"

// HealthServiceImpl implements the HealthService interface
type HealthServiceImpl struct {
	repo    repository.Repository
	storage storage.RenditionStorage
}

// NewHealthService creates a new health service
func NewHealthService(repo repository.Repository, renditionStorage storage.RenditionStorage) HealthService {
	return &HealthServiceImpl{
		repo:    repo,
		storage: renditionStorage,
	}
}

// CheckHealth probes the repository and storage backends
func (h *HealthServiceImpl) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	status := "healthy"

	repoStatus := "up"
	if err := h.repo.Health(ctx); err != nil {
		logger.WarnWithContext(ctx, "Repository health check failed",
			zap.Error(err))
		repoStatus = "down"
		status = "degraded"
	}

	storageStatus := "up"
	if err := h.storage.Health(ctx); err != nil {
		logger.WarnWithContext(ctx, "Storage health check failed",
			zap.Error(err))
		storageStatus = "down"
		status = "degraded"
	}

	return &models.HealthResponse{
		Status:     status,
		Version:    Version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Repository: repoStatus,
		Storage:    storageStatus,
	}, nil
}
