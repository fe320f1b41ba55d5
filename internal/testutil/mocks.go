package testutil

import (
	"context"
	"io"
	"time"

	"catalogd/internal/models"
	"catalogd/internal/service"
)

// MockCatalogService is a mock implementation of service.CatalogService
type MockCatalogService struct {
	UploadFunc         func(ctx context.Context, input service.UploadInput) (*service.UploadResult, error)
	CreateFromURLFunc  func(ctx context.Context, input service.CreateInput) (*models.AssetResponse, error)
	GetFunc            func(ctx context.Context, id string) (*models.AssetResponse, error)
	ListFunc           func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error)
	ListPublicFunc     func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error)
	UpdateFunc         func(ctx context.Context, id string, input service.UpdateInput) (*models.AssetResponse, error)
	ToggleActiveFunc   func(ctx context.Context, id string) (*models.AssetResponse, error)
	DeleteFunc         func(ctx context.Context, id string) error
	CategoryCountsFunc func(ctx context.Context) ([]models.CategoryCount, error)
}

func (m *MockCatalogService) Upload(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockCatalogService) CreateFromURL(ctx context.Context, input service.CreateInput) (*models.AssetResponse, error) {
	if m.CreateFromURLFunc != nil {
		return m.CreateFromURLFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockCatalogService) Get(ctx context.Context, id string) (*models.AssetResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogService) List(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockCatalogService) ListPublic(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockCatalogService) Update(ctx context.Context, id string, input service.UpdateInput) (*models.AssetResponse, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	return nil, nil
}

func (m *MockCatalogService) ToggleActive(ctx context.Context, id string) (*models.AssetResponse, error) {
	if m.ToggleActiveFunc != nil {
		return m.ToggleActiveFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	if m.CategoryCountsFunc != nil {
		return m.CategoryCountsFunc(ctx)
	}
	return nil, nil
}

// MockRepository is an in-memory mock of repository.Repository. Asset and
// listing state live in plain maps so tests can seed and inspect them; the
// Func fields override individual operations when set.
type MockRepository struct {
	Assets   map[string]*models.ImageAsset
	Listings map[string]mockListing

	StoreFunc              func(ctx context.Context, asset *models.ImageAsset) error
	GetFunc                func(ctx context.Context, id string) (*models.ImageAsset, error)
	UpdateFunc             func(ctx context.Context, asset *models.ImageAsset) error
	DeleteFunc             func(ctx context.Context, id string) error
	ListFunc               func(ctx context.Context) ([]*models.ImageAsset, error)
	SetListingFunc         func(ctx context.Context, key, value string, ttl time.Duration) error
	GetListingFunc         func(ctx context.Context, key string) (string, error)
	InvalidateListingsFunc func(ctx context.Context) error
	HealthFunc             func(ctx context.Context) error

	// Call counters for cache behavior assertions
	ListCalls       int
	SetListingCalls int
	GetListingCalls int
	InvalidateCalls int
}

type mockListing struct {
	value     string
	expiresAt time.Time
}

// NewMockRepository creates an empty in-memory repository mock
func NewMockRepository() *MockRepository {
	return &MockRepository{
		Assets:   make(map[string]*models.ImageAsset),
		Listings: make(map[string]mockListing),
	}
}

func (m *MockRepository) Store(ctx context.Context, asset *models.ImageAsset) error {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, asset)
	}
	copied := *asset
	m.Assets[asset.ID] = &copied
	return nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (*models.ImageAsset, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	asset, ok := m.Assets[id]
	if !ok {
		return nil, models.NotFoundError{Resource: "image", ID: id}
	}
	copied := *asset
	return &copied, nil
}

func (m *MockRepository) Update(ctx context.Context, asset *models.ImageAsset) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, asset)
	}
	if _, ok := m.Assets[asset.ID]; !ok {
		return models.NotFoundError{Resource: "image", ID: asset.ID}
	}
	copied := *asset
	m.Assets[asset.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	if _, ok := m.Assets[id]; !ok {
		return models.NotFoundError{Resource: "image", ID: id}
	}
	delete(m.Assets, id)
	return nil
}

func (m *MockRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.Assets[id]
	return ok, nil
}

func (m *MockRepository) List(ctx context.Context) ([]*models.ImageAsset, error) {
	m.ListCalls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	assets := make([]*models.ImageAsset, 0, len(m.Assets))
	for _, asset := range m.Assets {
		copied := *asset
		assets = append(assets, &copied)
	}
	return assets, nil
}

func (m *MockRepository) SetListing(ctx context.Context, key, value string, ttl time.Duration) error {
	m.SetListingCalls++
	if m.SetListingFunc != nil {
		return m.SetListingFunc(ctx, key, value, ttl)
	}
	m.Listings[key] = mockListing{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MockRepository) GetListing(ctx context.Context, key string) (string, error) {
	m.GetListingCalls++
	if m.GetListingFunc != nil {
		return m.GetListingFunc(ctx, key)
	}
	entry, ok := m.Listings[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(m.Listings, key)
		return "", ErrMockCacheMiss
	}
	return entry.value, nil
}

func (m *MockRepository) InvalidateListings(ctx context.Context) error {
	m.InvalidateCalls++
	if m.InvalidateListingsFunc != nil {
		return m.InvalidateListingsFunc(ctx)
	}
	m.Listings = make(map[string]mockListing)
	return nil
}

func (m *MockRepository) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockRepository) Close() error { return nil }

// MockStorage is an in-memory mock of storage.RenditionStorage
type MockStorage struct {
	Files map[string][]byte

	UploadFunc func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DeleteFunc func(ctx context.Context, key string) error
	HealthFunc func(ctx context.Context) error

	DeletedKeys []string
}

// NewMockStorage creates an empty in-memory storage mock
func NewMockStorage() *MockStorage {
	return &MockStorage{Files: make(map[string][]byte)}
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, reader, size, contentType)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.Files[key] = data
	return nil
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.Files[key]
	if !ok {
		return nil, ErrMockNotFound
	}
	return io.NopCloser(newByteReader(data)), nil
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	m.DeletedKeys = append(m.DeletedKeys, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	delete(m.Files, key)
	return nil
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.Files[key]
	return ok, nil
}

func (m *MockStorage) GetURL(key string) string {
	return "http://localhost:8080/uploads/" + key
}

func (m *MockStorage) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// MockSEOService is a canned-response mock of service.SEOService
type MockSEOService struct {
	AnalyzeFunc func(data []byte, filename, title, category string) *service.SEOAnalysis
}

func (m *MockSEOService) Analyze(data []byte, filename, title, category string) *service.SEOAnalysis {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(data, filename, title, category)
	}
	return &service.SEOAnalysis{
		SuggestedAltText:  title + " - " + category + " image optimized for web",
		SuggestedSEOTitle: title,
		TechnicalSEO:      &service.TechnicalSEO{},
		Score:             50,
		Recommendations:   []string{},
	}
}

// MockProcessorService is a mock of service.ProcessorService
type MockProcessorService struct {
	DetectFormatFunc  func(data []byte) (string, error)
	GetDimensionsFunc func(data []byte) (int, int, error)
	TranscodeFunc     func(data []byte, opts service.TranscodeOptions) (*service.TranscodeResult, error)
	ValidateImageFunc func(data []byte, maxSize int64) error
}

func (m *MockProcessorService) DetectFormat(data []byte) (string, error) {
	if m.DetectFormatFunc != nil {
		return m.DetectFormatFunc(data)
	}
	return "image/jpeg", nil
}

func (m *MockProcessorService) GetDimensions(data []byte) (int, int, error) {
	if m.GetDimensionsFunc != nil {
		return m.GetDimensionsFunc(data)
	}
	return 1200, 800, nil
}

func (m *MockProcessorService) Transcode(data []byte, opts service.TranscodeOptions) (*service.TranscodeResult, error) {
	if m.TranscodeFunc != nil {
		return m.TranscodeFunc(data, opts)
	}
	return &service.TranscodeResult{
		WebP:           []byte("webp-bytes"),
		JPEG:           []byte("jpeg-bytes"),
		Width:          1200,
		Height:         800,
		OriginalWidth:  1200,
		OriginalHeight: 800,
		OriginalFormat: "jpeg",
		OriginalSize:   int64(len(data)),
	}, nil
}

func (m *MockProcessorService) ValidateImage(data []byte, maxSize int64) error {
	if m.ValidateImageFunc != nil {
		return m.ValidateImageFunc(data, maxSize)
	}
	return nil
}
