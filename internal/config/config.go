package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Repository RepositoryConfig
	Redis      RedisConfig
	Storage    StorageConfig
	S3         S3Config
	Image      ImageConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Logger     LoggerConfig
	CORS       CORSConfig
	Auth       AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// RepositoryConfig selects and configures the catalog repository backend
type RepositoryConfig struct {
	Type      string // "badger" or "redis"
	Directory string // BadgerDB data directory (type=badger)
}

// RedisConfig holds Redis connection configuration (type=redis)
type RedisConfig struct {
	URL      string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// StorageConfig selects and configures the rendition storage backend
type StorageConfig struct {
	Type          string // "local" or "s3"
	UploadDir     string // local rendition directory, served at /uploads
	PublicBaseURL string // absolute URL prefix for local renditions
}

// S3Config holds S3 storage configuration (type=s3)
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ImageConfig holds image pipeline configuration
type ImageConfig struct {
	MaxFileSize     int64
	Quality         int
	MaxWidth        int
	MaxHeight       int
	BackgroundColor string // canvas color for JPEG alpha flattening
}

// CacheConfig holds the public listing cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	Upload int
	Public int
	Admin  int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool
	AllowAllOrigins  bool
	AllowedOrigins   []string
	AllowCredentials bool
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	Enabled     bool
	TokenSecret string        // HMAC secret for admin token verification
	TokenTTL    time.Duration // lifetime of issued admin tokens
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Repository: RepositoryConfig{
			Type:      getEnv("REPOSITORY_TYPE", "badger"),
			Directory: getEnv("REPOSITORY_DIRECTORY", "./data/catalog"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			Timeout:  time.Duration(getEnvInt("REDIS_TIMEOUT", 5)) * time.Second,
		},
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "local"),
			UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "https://s3.amazonaws.com"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			UseSSL:    getEnvBool("S3_USE_SSL", true),
		},
		Image: ImageConfig{
			MaxFileSize:     int64(getEnvInt("MAX_FILE_SIZE", 10485760)), // 10MiB default
			Quality:         getEnvInt("IMAGE_QUALITY", 85),
			MaxWidth:        getEnvInt("IMAGE_MAX_WIDTH", 8192),
			MaxHeight:       getEnvInt("IMAGE_MAX_HEIGHT", 8192),
			BackgroundColor: getEnv("BACKGROUND_COLOR", "#ffffff"),
		},
		Cache: CacheConfig{
			TTL: getEnvDuration("PUBLIC_CACHE_TTL", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			Upload: getEnvInt("RATE_LIMIT_UPLOAD", 10),
			Public: getEnvInt("RATE_LIMIT_PUBLIC", 120),
			Admin:  getEnvInt("RATE_LIMIT_ADMIN", 60),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			Enabled:          getEnvBool("CORS_ENABLED", true),
			AllowAllOrigins:  getEnvBool("CORS_ALLOW_ALL_ORIGINS", false),
			AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		},
		Auth: AuthConfig{
			Enabled:     getEnvBool("AUTH_ENABLED", true),
			TokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
			TokenTTL:    getEnvDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	validRepositoryTypes := []string{"badger", "redis"}
	if !contains(validRepositoryTypes, c.Repository.Type) {
		return fmt.Errorf("REPOSITORY_TYPE must be one of: %s", strings.Join(validRepositoryTypes, ", "))
	}
	if c.Repository.Type == "badger" && c.Repository.Directory == "" {
		return fmt.Errorf("REPOSITORY_DIRECTORY is required when REPOSITORY_TYPE=badger")
	}
	if c.Repository.Type == "redis" && c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required when REPOSITORY_TYPE=redis")
	}

	validStorageTypes := []string{"local", "s3"}
	if !contains(validStorageTypes, c.Storage.Type) {
		return fmt.Errorf("STORAGE_TYPE must be one of: %s", strings.Join(validStorageTypes, ", "))
	}
	if c.Storage.Type == "local" {
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required when STORAGE_TYPE=local")
		}
		if c.Storage.PublicBaseURL == "" {
			return fmt.Errorf("PUBLIC_BASE_URL is required when STORAGE_TYPE=local")
		}
	}
	if c.Storage.Type == "s3" {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE=s3")
		}
		if c.S3.AccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY is required when STORAGE_TYPE=s3")
		}
		if c.S3.SecretKey == "" {
			return fmt.Errorf("S3_SECRET_KEY is required when STORAGE_TYPE=s3")
		}
	}

	if c.Image.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be between 1 and 100")
	}
	if c.Image.MaxWidth <= 0 {
		return fmt.Errorf("IMAGE_MAX_WIDTH must be a positive integer")
	}
	if c.Image.MaxHeight <= 0 {
		return fmt.Errorf("IMAGE_MAX_HEIGHT must be a positive integer")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("PUBLIC_CACHE_TTL must be positive")
	}

	if c.RateLimit.Upload <= 0 || c.RateLimit.Public <= 0 || c.RateLimit.Admin <= 0 {
		return fmt.Errorf("rate limits must be positive integers")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}
	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", "))
	}

	if c.Auth.Enabled && len(c.Auth.TokenSecret) < 32 {
		return fmt.Errorf("ADMIN_TOKEN_SECRET must be at least 32 characters when AUTH_ENABLED=true")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.GinMode == "debug" || c.Logger.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release" && c.Logger.Format == "json"
}

// Helper functions for environment variable parsing

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as integer or default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns environment variable as boolean or default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvStringSlice returns environment variable as string slice or default
func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// contains checks if slice contains value
func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
