package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/internal/repository"
	"catalogd/internal/storage"
	"catalogd/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	repo      repository.Repository
	storage   storage.RenditionStorage
	processor ProcessorService
	seo       SEOService
	config    *config.Config
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo repository.Repository,
	renditionStorage storage.RenditionStorage,
	processor ProcessorService,
	seo SEOService,
	cfg *config.Config,
) CatalogService {
	return &CatalogServiceImpl{
		repo:      repo,
		storage:   renditionStorage,
		processor: processor,
		seo:       seo,
		config:    cfg,
	}
}

// Upload runs the full ingestion pipeline: validate, generate the base
// name, transcode, analyze, persist renditions and record. The record
// write comes last; if it fails the already-written renditions are
// removed as compensation.
func (s *CatalogServiceImpl) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	logger.InfoWithContext(ctx, "Starting image upload",
		zap.String("filename", input.Filename),
		zap.Int64("size", input.Size),
		zap.String("category", input.Category))

	if err := s.validateUploadInput(&input); err != nil {
		return nil, err
	}

	if err := s.processor.ValidateImage(input.Data, s.config.Image.MaxFileSize); err != nil {
		return nil, models.ProcessingError{Operation: "validate", Reason: err.Error()}
	}

	baseName := GenerateBaseName(input.Filename, input.Title)

	quality := input.Quality
	if quality == 0 {
		quality = s.config.Image.Quality
	}

	transcoded, err := s.processor.Transcode(input.Data, TranscodeOptions{
		BaseName:        baseName,
		Quality:         quality,
		MaxWidth:        input.MaxWidth,
		MaxHeight:       input.MaxHeight,
		BackgroundColor: s.config.Image.BackgroundColor,
	})
	if err != nil {
		return nil, models.ProcessingError{Operation: "transcode", Reason: err.Error()}
	}

	analysis := s.seo.Analyze(input.Data, input.Filename, input.Title, input.Category)

	webpKey := renditionKey(baseName, "webp")
	jpegKey := renditionKey(baseName, "jpg")

	if err := s.storage.Upload(ctx, webpKey, bytes.NewReader(transcoded.WebP), int64(len(transcoded.WebP)), "image/webp"); err != nil {
		return nil, models.StorageError{Operation: "upload", Backend: s.config.Storage.Type, Reason: err.Error()}
	}
	if err := s.storage.Upload(ctx, jpegKey, bytes.NewReader(transcoded.JPEG), int64(len(transcoded.JPEG)), "image/jpeg"); err != nil {
		s.cleanupRenditions(ctx, webpKey)
		return nil, models.StorageError{Operation: "upload", Backend: s.config.Storage.Type, Reason: err.Error()}
	}

	asset := s.assembleAsset(input, analysis, transcoded, quality, webpKey, jpegKey)

	if err := asset.Validate(); err != nil {
		s.cleanupRenditions(ctx, webpKey, jpegKey)
		return nil, err
	}

	if err := s.repo.Store(ctx, asset); err != nil {
		// Compensate: the renditions are orphans without a catalog record
		s.cleanupRenditions(ctx, webpKey, jpegKey)
		return nil, err
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Image upload completed",
		zap.String("asset_id", asset.ID),
		zap.String("base_name", baseName),
		zap.Int("seo_score", analysis.Score))

	resized := transcoded.Width != transcoded.OriginalWidth ||
		transcoded.Height != transcoded.OriginalHeight

	ratio := 0.0
	if transcoded.OriginalSize > 0 {
		ratio = 100 * (1 - float64(len(transcoded.WebP))/float64(transcoded.OriginalSize))
	}

	return &UploadResult{
		Asset:       asset.ToResponse(),
		SEOAnalysis: analysis,
		ProcessingInfo: ProcessingInfo{
			OriginalFormat:   transcoded.OriginalFormat,
			OriginalSize:     transcoded.OriginalSize,
			WebPSize:         int64(len(transcoded.WebP)),
			JPEGSize:         int64(len(transcoded.JPEG)),
			CompressionRatio: ratio,
			Width:            transcoded.Width,
			Height:           transcoded.Height,
			Quality:          clampQuality(quality),
			Resized:          resized,
		},
	}, nil
}

// CreateFromURL persists a record for a pre-hosted image without running
// the pipeline. Unlike the upload path there is no analysis to fall back
// on, so altText is required here.
func (s *CatalogServiceImpl) CreateFromURL(ctx context.Context, input CreateInput) (*models.AssetResponse, error) {
	altText := strings.TrimSpace(input.AltText)
	if len(altText) < 10 || len(altText) > 125 {
		return nil, models.ValidationError{Field: "altText", Message: "altText must be between 10 and 125 characters"}
	}

	now := time.Now().UTC()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	asset := &models.ImageAsset{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		ImageURL:       strings.TrimSpace(input.ImageURL),
		AltText:        altText,
		SEOTitle:       strings.TrimSpace(input.SEOTitle),
		SEODescription: strings.TrimSpace(input.SEODesc),
		FocusKeyword:   strings.ToLower(strings.TrimSpace(input.FocusKeyword)),
		Category:       input.Category,
		Tags:           models.NormalizeTags(input.Tags),
		IsActive:       isActive,
		DisplayOrder:   input.DisplayOrder,
		Metadata: models.AssetMetadata{
			Format:             "webp",
			CompressionQuality: s.config.Image.Quality,
			IsOptimized:        false,
		},
		UploadedBy: attribution(input.UploadedBy),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Store(ctx, asset); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Asset created from URL",
		zap.String("asset_id", asset.ID))

	response := asset.ToResponse()
	return &response, nil
}

// Get retrieves one asset by ID
func (s *CatalogServiceImpl) Get(ctx context.Context, id string) (*models.AssetResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, models.ValidationError{Field: "id", Message: "id is required"}
	}

	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	response := asset.ToResponse()
	return &response, nil
}

// List retrieves a filtered, paginated page of assets for the admin view
func (s *CatalogServiceImpl) List(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
	filter = normalizeFilter(filter, defaultAdminPageSize)
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, models.ValidationError{Field: "category", Message: "unknown category"}
	}

	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return buildListing(assets, filter), nil
}

// ListPublic retrieves active assets only. Identical queries inside the
// cache TTL are answered from the listing cache without touching the
// repository.
func (s *CatalogServiceImpl) ListPublic(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
	active := true
	filter.IsActive = &active
	filter.MatchAltText = true
	filter = normalizeFilter(filter, defaultPublicPageSize)
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, models.ValidationError{Field: "category", Message: "unknown category"}
	}

	cacheKey := listingCacheKey(filter)
	if cached, err := s.repo.GetListing(ctx, cacheKey); err == nil {
		var result models.ListResult
		if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
			logger.DebugWithContext(ctx, "Public listing served from cache",
				zap.String("cache_key", cacheKey))
			return &result, nil
		}
	} else if err != repository.ErrCacheMiss {
		logger.WarnWithContext(ctx, "Listing cache read failed",
			zap.Error(err))
	}

	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := buildListing(assets, filter)

	if data, err := json.Marshal(result); err == nil {
		if err := s.repo.SetListing(ctx, cacheKey, string(data), s.config.Cache.TTL); err != nil {
			logger.WarnWithContext(ctx, "Listing cache write failed",
				zap.Error(err))
		}
	}

	return result, nil
}

// Update applies a partial field merge to an existing asset
func (s *CatalogServiceImpl) Update(ctx context.Context, id string, input UpdateInput) (*models.AssetResponse, error) {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		asset.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		asset.Description = strings.TrimSpace(*input.Description)
	}
	if input.ImageURL != nil {
		asset.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.AltText != nil {
		asset.AltText = strings.TrimSpace(*input.AltText)
	}
	if input.SEOTitle != nil {
		asset.SEOTitle = strings.TrimSpace(*input.SEOTitle)
	}
	if input.SEODesc != nil {
		asset.SEODescription = strings.TrimSpace(*input.SEODesc)
	}
	if input.FocusKeyword != nil {
		asset.FocusKeyword = strings.ToLower(strings.TrimSpace(*input.FocusKeyword))
	}
	if input.Category != nil {
		asset.Category = *input.Category
	}
	if input.HasTags {
		asset.Tags = models.NormalizeTags(input.Tags)
	}
	if input.IsActive != nil {
		asset.IsActive = *input.IsActive
	}
	if input.DisplayOrder != nil {
		asset.DisplayOrder = *input.DisplayOrder
	}
	asset.UpdatedAt = time.Now().UTC()

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Asset updated",
		zap.String("asset_id", id))

	response := asset.ToResponse()
	return &response, nil
}

// ToggleActive flips the asset's visibility flag
func (s *CatalogServiceImpl) ToggleActive(ctx context.Context, id string) (*models.AssetResponse, error) {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.IsActive = !asset.IsActive
	asset.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Asset visibility toggled",
		zap.String("asset_id", id),
		zap.Bool("is_active", asset.IsActive))

	response := asset.ToResponse()
	return &response, nil
}

// Delete removes the record and then the renditions. The record goes
// first so a rendition-cleanup failure leaves orphan files, never a
// dangling catalog entry; cleanup errors are logged, not surfaced.
func (s *CatalogServiceImpl) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	keys := []string{}
	if key := keyFromURL(asset.ImageURL); key != "" {
		keys = append(keys, key)
	}
	if key := keyFromURL(asset.FallbackURL); key != "" {
		keys = append(keys, key)
	}
	s.cleanupRenditions(ctx, keys...)

	s.invalidateListings(ctx)

	logger.InfoWithContext(ctx, "Asset deleted",
		zap.String("asset_id", id))
	return nil
}

// CategoryCounts aggregates active assets per category, alphabetically
func (s *CatalogServiceImpl) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, asset := range assets {
		if asset.IsActive {
			counts[asset.Category]++
		}
	}

	result := make([]models.CategoryCount, 0, len(counts))
	for _, category := range models.ValidCategories {
		if counts[category] > 0 {
			result = append(result, models.CategoryCount{Name: category, Count: counts[category]})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Helpers

// validateUploadInput checks the request fields before any processing
func (s *CatalogServiceImpl) validateUploadInput(input *UploadInput) error {
	if len(input.Data) == 0 {
		return models.ValidationError{Field: "image", Message: "image file is required"}
	}
	if input.Size > s.config.Image.MaxFileSize {
		return models.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("file exceeds maximum size of %d bytes", s.config.Image.MaxFileSize),
		}
	}
	if input.ContentType != "" && !strings.HasPrefix(input.ContentType, "image/") {
		return models.ValidationError{Field: "image", Message: "only image uploads are accepted"}
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.ValidationError{Field: "description", Message: "description is required"}
	}
	if !models.IsValidCategory(input.Category) {
		return models.ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category must be one of: %s", strings.Join(models.ValidCategories, ", ")),
		}
	}
	if input.Quality < 0 || input.Quality > 100 {
		return models.ValidationError{Field: "quality", Message: "quality must be between 1 and 100"}
	}
	return nil
}

// assembleAsset builds the catalog record from the pipeline outputs,
// filling SEO fields from the analysis when the request omitted them
func (s *CatalogServiceImpl) assembleAsset(input UploadInput, analysis *SEOAnalysis, transcoded *TranscodeResult, quality int, webpKey, jpegKey string) *models.ImageAsset {
	now := time.Now().UTC()

	altText := strings.TrimSpace(input.AltText)
	if altText == "" {
		altText = analysis.SuggestedAltText
	}

	seoTitle := strings.TrimSpace(input.SEOTitle)
	if seoTitle == "" {
		seoTitle = sanitizeSEOTitle(analysis.SuggestedSEOTitle)
	}

	seoDescription := strings.TrimSpace(input.SEODesc)
	if seoDescription == "" {
		seoDescription = strings.TrimSpace(input.Description)
		if len(seoDescription) > 160 {
			seoDescription = strings.TrimSpace(seoDescription[:160])
		}
	}

	focusKeyword := strings.ToLower(strings.TrimSpace(input.FocusKeyword))
	if focusKeyword == "" {
		focusKeyword = strings.ToLower(strings.TrimSpace(input.Title))
		if len(focusKeyword) > 50 {
			focusKeyword = strings.TrimSpace(focusKeyword[:50])
		}
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	return &models.ImageAsset{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		ImageURL:       s.storage.GetURL(webpKey),
		FallbackURL:    s.storage.GetURL(jpegKey),
		AltText:        altText,
		SEOTitle:       seoTitle,
		SEODescription: seoDescription,
		FocusKeyword:   focusKeyword,
		Category:       input.Category,
		Tags:           models.NormalizeTags(input.Tags),
		IsActive:       isActive,
		DisplayOrder:   input.DisplayOrder,
		Metadata: models.AssetMetadata{
			FileSize: int64(len(transcoded.WebP)),
			Dimensions: models.Dimensions{
				Width:  transcoded.Width,
				Height: transcoded.Height,
			},
			Format:             "webp",
			OriginalFormat:     transcoded.OriginalFormat,
			CompressionQuality: clampQuality(quality),
			IsOptimized:        true,
		},
		UploadedBy: attribution(input.UploadedBy),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// cleanupRenditions best-effort deletes storage keys, logging failures
func (s *CatalogServiceImpl) cleanupRenditions(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.WarnWithContext(ctx, "Failed to clean up rendition",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}

// invalidateListings drops the public listing cache after any mutation
func (s *CatalogServiceImpl) invalidateListings(ctx context.Context) {
	if err := s.repo.InvalidateListings(ctx); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate listing cache",
			zap.Error(err))
	}
}

// buildListing runs filter, sort and pagination over the full record set
func buildListing(assets []*models.ImageAsset, filter models.ListFilter) *models.ListResult {
	matched := filterAssets(assets, filter)
	sortAssets(matched, filter.SortBy, filter.SortOrder)
	page, pagination := paginate(matched, filter.Page, filter.Limit)

	images := make([]models.AssetResponse, 0, len(page))
	for _, asset := range page {
		images = append(images, asset.ToResponse())
	}
	return &models.ListResult{Images: images, Pagination: pagination}
}

// listingCacheKey derives a stable cache key from the normalized filter
func listingCacheKey(filter models.ListFilter) string {
	return fmt.Sprintf("category=%s&search=%s&tags=%s&page=%d&limit=%d&sort=%s:%s",
		filter.Category,
		strings.ToLower(strings.TrimSpace(filter.Search)),
		strings.Join(filter.Tags, ","),
		filter.Page,
		filter.Limit,
		filter.SortBy,
		filter.SortOrder)
}

// renditionKey maps a base name and extension onto the storage layout
func renditionKey(baseName, ext string) string {
	return "images/" + baseName + "." + ext
}

// keyFromURL recovers the storage key from a persisted rendition URL
func keyFromURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.LastIndex(url, "/uploads/"); idx >= 0 {
		return url[idx+len("/uploads/"):]
	}
	if idx := strings.LastIndex(url, "/images/"); idx >= 0 {
		return "images" + url[idx+len("/images"):]
	}
	return ""
}

// sanitizeSEOTitle strips characters outside the seoTitle charset and
// bounds the result to 60 characters
func sanitizeSEOTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune(r)
		}
	}
	sanitized := strings.TrimSpace(b.String())
	if len(sanitized) > 60 {
		sanitized = strings.TrimSpace(sanitized[:60])
	}
	return sanitized
}

// attribution defaults the uploader attribution
func attribution(uploadedBy string) string {
	if strings.TrimSpace(uploadedBy) == "" {
		return "admin"
	}
	return uploadedBy
}
