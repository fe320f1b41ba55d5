package models

import (
	"fmt"
	"strings"
	"time"
)

// Valid catalog categories
const (
	CategoryHero        = "hero"
	CategoryProduct     = "product"
	CategoryBanner      = "banner"
	CategoryGallery     = "gallery"
	CategoryTestimonial = "testimonial"
	CategoryAbout       = "about"
)

// ValidCategories is the closed set of accepted category values
var ValidCategories = []string{
	CategoryHero,
	CategoryProduct,
	CategoryBanner,
	CategoryGallery,
	CategoryTestimonial,
	CategoryAbout,
}

// AssetMetadata holds the technical metadata of a persisted image asset
type AssetMetadata struct {
	FileSize           int64      `json:"fileSize"`
	Dimensions         Dimensions `json:"dimensions"`
	Format             string     `json:"format"`
	OriginalFormat     string     `json:"originalFormat,omitempty"`
	CompressionQuality int        `json:"compressionQuality"`
	IsOptimized        bool       `json:"isOptimized"`
}

// Dimensions holds pixel dimensions
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageAsset represents one catalog record
type ImageAsset struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	ImageURL       string        `json:"imageUrl"`
	FallbackURL    string        `json:"fallbackUrl,omitempty"`
	AltText        string        `json:"altText"`
	SEOTitle       string        `json:"seoTitle,omitempty"`
	SEODescription string        `json:"seoDescription,omitempty"`
	FocusKeyword   string        `json:"focusKeyword,omitempty"`
	Category       string        `json:"category"`
	Tags           []string      `json:"tags"`
	IsActive       bool          `json:"isActive"`
	DisplayOrder   int           `json:"displayOrder"`
	Metadata       AssetMetadata `json:"metadata"`
	UploadedBy     string        `json:"uploadedBy"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// AssetResponse is an ImageAsset enriched with read-time derived fields
type AssetResponse struct {
	ImageAsset
	FormattedFileSize   string   `json:"formattedFileSize"`
	FormattedDimensions string   `json:"formattedDimensions"`
	SEOScore            int      `json:"seoScore"`
	SEORecommendations  []string `json:"seoRecommendations"`
}

// ListFilter describes a catalog list query
type ListFilter struct {
	Category     string
	IsActive     *bool
	Search       string
	MatchAltText bool
	Tags         []string
	Page         int
	Limit        int
	SortBy       string
	SortOrder    string
}

// Pagination describes the page window of a list response
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// ListResult pairs a page of assets with its pagination window
type ListResult struct {
	Images     []AssetResponse `json:"images"`
	Pagination Pagination      `json:"pagination"`
}

// CategoryCount is one entry of the category aggregation
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	Repository string `json:"repository"`
	Storage    string `json:"storage"`
}

// Custom error types for better error handling
type (
	// ValidationError represents a validation error
	ValidationError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}

	// NotFoundError represents a resource not found error
	NotFoundError struct {
		Resource string `json:"resource"`
		ID       string `json:"id"`
	}

	// ProcessingError represents an image processing error
	ProcessingError struct {
		Operation string `json:"operation"`
		Reason    string `json:"reason"`
	}

	// StorageError represents a storage operation error
	StorageError struct {
		Operation string `json:"operation"`
		Backend   string `json:"backend"`
		Reason    string `json:"reason"`
	}

	// AuthError represents a failed admin authentication
	AuthError struct {
		Reason string `json:"-"`
	}
)

// Error implementations for custom error types
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("processing error during %s: %s", e.Operation, e.Reason)
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage error during %s on %s: %s", e.Operation, e.Backend, e.Reason)
}

func (e AuthError) Error() string {
	return "unauthorized"
}

// IsValidCategory checks membership in the category enumeration
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases and trims tags, drops empties and deduplicates
// preserving first-occurrence order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

// ParseTagList splits a comma-separated tag string and normalizes the result
func ParseTagList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}

// Validate checks the asset against its persistence invariants
func (a *ImageAsset) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(a.Title) > 100 {
		return ValidationError{Field: "title", Message: "title must be at most 100 characters"}
	}
	if strings.TrimSpace(a.Description) == "" {
		return ValidationError{Field: "description", Message: "description is required"}
	}
	if len(a.Description) > 500 {
		return ValidationError{Field: "description", Message: "description must be at most 500 characters"}
	}
	if strings.TrimSpace(a.ImageURL) == "" {
		return ValidationError{Field: "imageUrl", Message: "imageUrl is required"}
	}
	if strings.TrimSpace(a.AltText) == "" {
		return ValidationError{Field: "altText", Message: "altText is required"}
	}
	if len(a.AltText) > 125 {
		return ValidationError{Field: "altText", Message: "altText must be at most 125 characters"}
	}
	if a.SEOTitle != "" {
		if len(a.SEOTitle) > 60 {
			return ValidationError{Field: "seoTitle", Message: "seoTitle must be at most 60 characters"}
		}
		if !isSEOTitleCharset(a.SEOTitle) {
			return ValidationError{Field: "seoTitle", Message: "seoTitle may only contain letters, digits, spaces and hyphens"}
		}
	}
	if len(a.SEODescription) > 160 {
		return ValidationError{Field: "seoDescription", Message: "seoDescription must be at most 160 characters"}
	}
	if len(a.FocusKeyword) > 50 {
		return ValidationError{Field: "focusKeyword", Message: "focusKeyword must be at most 50 characters"}
	}
	if !IsValidCategory(a.Category) {
		return ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category must be one of: %s", strings.Join(ValidCategories, ", ")),
		}
	}
	for _, tag := range a.Tags {
		if strings.TrimSpace(tag) == "" {
			return ValidationError{Field: "tags", Message: "tags must not contain empty entries"}
		}
	}
	if a.Metadata.CompressionQuality < 1 || a.Metadata.CompressionQuality > 100 {
		return ValidationError{Field: "metadata.compressionQuality", Message: "compressionQuality must be between 1 and 100"}
	}
	if a.Metadata.Dimensions.Width < 0 || a.Metadata.Dimensions.Height < 0 {
		return ValidationError{Field: "metadata.dimensions", Message: "dimensions must be positive"}
	}
	return nil
}

func isSEOTitleCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return true
}

// FormatFileSize renders a byte count as a human readable string
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// ToResponse attaches the read-time derived fields to the asset
func (a *ImageAsset) ToResponse() AssetResponse {
	score, recommendations := ScoreAsset(a)
	return AssetResponse{
		ImageAsset:          *a,
		FormattedFileSize:   FormatFileSize(a.Metadata.FileSize),
		FormattedDimensions: fmt.Sprintf("%dx%d", a.Metadata.Dimensions.Width, a.Metadata.Dimensions.Height),
		SEOScore:            score,
		SEORecommendations:  recommendations,
	}
}
