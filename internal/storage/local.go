package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"catalogd/internal/config"
	"catalogd/pkg/logger"

	"go.uber.org/zap"
)

// LocalStorage implements RenditionStorage on the local filesystem. Files
// live under the upload directory and are served by the HTTP layer at
// /uploads, so GetURL joins the public base URL with that path.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// Ensure LocalStorage implements the RenditionStorage interface
var _ RenditionStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a local storage instance, creating the upload
// directory if missing
func NewLocalStorage(cfg *config.StorageConfig) (*LocalStorage, error) {
	logger.Info("Initializing local storage",
		zap.String("upload_dir", cfg.UploadDir),
		zap.String("public_base_url", cfg.PublicBaseURL))

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		baseDir: cfg.UploadDir,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores a rendition under key
func (l *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	path, err := l.resolvePath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create rendition directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create rendition file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, reader)
	if err != nil {
		os.Remove(path) // do not leave a truncated file behind
		return fmt.Errorf("failed to write rendition file: %w", err)
	}

	logger.DebugWithContext(ctx, "Rendition written",
		zap.String("key", key),
		zap.Int64("bytes", written))
	return nil
}

// Download retrieves a rendition as a stream
func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.resolvePath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("rendition not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open rendition: %w", err)
	}
	return file, nil
}

// Delete removes a rendition; a missing file is treated as already deleted
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := l.resolvePath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete rendition: %w", err)
	}

	logger.DebugWithContext(ctx, "Rendition deleted",
		zap.String("key", key))
	return nil
}

// Exists checks if a rendition exists
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := l.resolvePath(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat rendition: %w", err)
	}
	return true, nil
}

// GetURL returns the public URL for a rendition
func (l *LocalStorage) GetURL(key string) string {
	return l.baseURL + "/uploads/" + key
}

// Health checks that the upload directory is writable
func (l *LocalStorage) Health(ctx context.Context) error {
	probe := filepath.Join(l.baseDir, ".health")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("upload directory not writable: %w", err)
	}
	os.Remove(probe)
	return nil
}

// resolvePath maps a storage key onto the upload directory and rejects
// keys that would escape it
func (l *LocalStorage) resolvePath(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(l.baseDir, cleaned), nil
}
