package service

import (
	"context"

	"catalogd/internal/models"
)

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	// Upload handles the complete image upload workflow:
	// validation, filename generation, transcoding, SEO analysis, persistence
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)

	// CreateFromURL persists a record for a pre-hosted image, skipping the pipeline
	CreateFromURL(ctx context.Context, input CreateInput) (*models.AssetResponse, error)

	// Get retrieves one asset by ID
	Get(ctx context.Context, id string) (*models.AssetResponse, error)

	// List retrieves a filtered, paginated page of assets
	List(ctx context.Context, filter models.ListFilter) (*models.ListResult, error)

	// ListPublic retrieves active assets only, served through the listing cache
	ListPublic(ctx context.Context, filter models.ListFilter) (*models.ListResult, error)

	// Update applies a partial field merge to an existing asset
	Update(ctx context.Context, id string, input UpdateInput) (*models.AssetResponse, error)

	// ToggleActive flips the asset's visibility flag
	ToggleActive(ctx context.Context, id string) (*models.AssetResponse, error)

	// Delete removes an asset and its stored renditions
	Delete(ctx context.Context, id string) error

	// CategoryCounts aggregates active assets per category, sorted alphabetically
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
}

// ProcessorService defines the interface for image transcoding
type ProcessorService interface {
	// DetectFormat detects image format from data
	DetectFormat(data []byte) (string, error)

	// GetDimensions extracts image dimensions
	GetDimensions(data []byte) (width, height int, err error)

	// Transcode produces the WebP and JPEG renditions for a raw image
	Transcode(data []byte, opts TranscodeOptions) (*TranscodeResult, error)

	// ValidateImage checks if image data is valid
	ValidateImage(data []byte, maxSize int64) error
}

// SEOService defines the interface for upload-time SEO analysis
type SEOService interface {
	// Analyze inspects a raw image and derives suggested metadata and a score.
	// It never fails: on unreadable input it returns a degraded analysis.
	Analyze(data []byte, filename, title, category string) *SEOAnalysis
}

// HealthService defines the interface for health checking
type HealthService interface {
	// CheckHealth performs comprehensive health check
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// Input/Output Types

// UploadInput represents input for the image upload pipeline
type UploadInput struct {
	Filename     string `json:"filename"`
	ContentType  string `json:"content_type"`
	Data         []byte `json:"-"`
	Size         int64  `json:"size"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AltText      string `json:"alt_text"`
	SEOTitle     string `json:"seo_title"`
	SEODesc      string `json:"seo_description"`
	FocusKeyword string `json:"focus_keyword"`
	Category     string `json:"category"`
	Tags         []string
	IsActive     *bool
	DisplayOrder int
	Quality      int
	MaxWidth     int
	MaxHeight    int
	UploadedBy   string
}

// UploadResult pairs the persisted asset with the one-time pipeline output
type UploadResult struct {
	Asset          models.AssetResponse `json:"asset"`
	SEOAnalysis    *SEOAnalysis         `json:"seoAnalysis"`
	ProcessingInfo ProcessingInfo       `json:"processingInfo"`
}

// ProcessingInfo reports what the transcoder did for one upload
type ProcessingInfo struct {
	OriginalFormat   string  `json:"originalFormat"`
	OriginalSize     int64   `json:"originalSize"`
	WebPSize         int64   `json:"webpSize"`
	JPEGSize         int64   `json:"jpegSize"`
	CompressionRatio float64 `json:"compressionRatio"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Quality          int     `json:"quality"`
	Resized          bool    `json:"resized"`
}

// CreateInput represents input for the legacy create-by-URL flow
type CreateInput struct {
	Title          string
	Description    string
	ImageURL       string
	AltText        string
	SEOTitle       string
	SEODesc        string
	FocusKeyword   string
	Category       string
	Tags           []string
	IsActive       *bool
	DisplayOrder   int
	UploadedBy     string
}

// UpdateInput represents a partial asset update; nil fields are untouched
type UpdateInput struct {
	Title          *string
	Description    *string
	ImageURL       *string
	AltText        *string
	SEOTitle       *string
	SEODesc        *string
	FocusKeyword   *string
	Category       *string
	Tags           []string
	HasTags        bool
	IsActive       *bool
	DisplayOrder   *int
}

// TranscodeOptions represents transcoding configuration
type TranscodeOptions struct {
	BaseName        string
	Quality         int
	MaxWidth        int
	MaxHeight       int
	BackgroundColor string
}

// TranscodeResult represents the renditions produced for one upload
type TranscodeResult struct {
	WebP           []byte
	JPEG           []byte
	Width          int
	Height         int
	OriginalWidth  int
	OriginalHeight int
	OriginalFormat string
	OriginalSize   int64
}

// SEOAnalysis is the upload-time metadata bundle
type SEOAnalysis struct {
	SuggestedAltText  string        `json:"suggestedAltText"`
	SuggestedSEOTitle string        `json:"suggestedSEOTitle"`
	TechnicalSEO      *TechnicalSEO `json:"technicalSEO"`
	Score             int           `json:"score"`
	Recommendations   []string      `json:"recommendations"`
}

// TechnicalSEO describes the raw image's technical properties
type TechnicalSEO struct {
	AspectRatio   string `json:"aspectRatio"`
	IsLandscape   bool   `json:"isLandscape"`
	IsSquare      bool   `json:"isSquare"`
	IsPortrait    bool   `json:"isPortrait"`
	ColorSpace    string `json:"colorSpace"`
	HasAlpha      bool   `json:"hasAlpha"`
	DominantColor string `json:"dominantColor"`
	Density       string `json:"density"`
}
