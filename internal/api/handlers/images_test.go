package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalogd/internal/models"
	"catalogd/internal/service"
	"catalogd/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(w *httptest.ResponseRecorder, req *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func sampleResponse(id string) *models.AssetResponse {
	asset := models.ImageAsset{
		ID:          id,
		Title:       "Blue Wedding Suit",
		Description: "Tailored blue wedding suit",
		ImageURL:    "http://localhost:8080/uploads/images/" + id + ".webp",
		FallbackURL: "http://localhost:8080/uploads/images/" + id + ".jpg",
		AltText:     "Blue Wedding Suit - product image optimized for web",
		Category:    models.CategoryProduct,
		IsActive:    true,
		Metadata: models.AssetMetadata{
			FileSize:           120000,
			Dimensions:         models.Dimensions{Width: 1200, Height: 800},
			Format:             "webp",
			OriginalFormat:     "jpeg",
			CompressionQuality: 85,
			IsOptimized:        true,
		},
		UploadedBy: "admin",
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	response := asset.ToResponse()
	return &response
}

func TestImageHandler_Upload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("successful_upload", func(t *testing.T) {
		var captured service.UploadInput
		catalog := &testutil.MockCatalogService{
			UploadFunc: func(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
				captured = input
				return &service.UploadResult{
					Asset:       *sampleResponse("abc"),
					SEOAnalysis: &service.SEOAnalysis{Score: 50},
				}, nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		req := testutil.CreateMultipartRequest("POST", "/api/images/upload", map[string]string{
			"title":       "Blue Wedding Suit",
			"description": "Tailored blue wedding suit",
			"category":    "product",
			"tags":        "Wedding, Formal",
			"isActive":    "true",
			"quality":     "90",
		}, "image", "suit.jpg", testutil.MakeTestJPEG(100, 100))
		w := httptest.NewRecorder()

		handler.Upload(testContext(w, req))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Blue Wedding Suit", captured.Title)
		assert.Equal(t, []string{"wedding", "formal"}, captured.Tags)
		assert.Equal(t, 90, captured.Quality)
		require.NotNil(t, captured.IsActive)
		assert.True(t, *captured.IsActive)

		var response models.SuccessResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		assert.True(t, response.Success)
	})

	t.Run("missing_file_returns_validation_envelope", func(t *testing.T) {
		handler := NewImageHandler(&testutil.MockCatalogService{}, testutil.TestConfig())

		req := httptest.NewRequest("POST", "/api/images/upload", bytes.NewReader(nil))
		w := httptest.NewRecorder()

		handler.Upload(testContext(w, req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response models.ErrorResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		assert.False(t, response.Success)
		assert.Equal(t, "Validation failed", response.Message)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "image", response.Errors[0].Field)
	})

	t.Run("non_image_part_rejected", func(t *testing.T) {
		handler := NewImageHandler(&testutil.MockCatalogService{}, testutil.TestConfig())

		var body bytes.Buffer
		boundary := "test-boundary"
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString("Content-Disposition: form-data; name=\"image\"; filename=\"doc.pdf\"\r\n")
		body.WriteString("Content-Type: application/pdf\r\n\r\n")
		body.WriteString("%PDF-1.4")
		body.WriteString("\r\n--" + boundary + "--\r\n")
		req := httptest.NewRequest("POST", "/api/images/upload", &body)
		req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
		w := httptest.NewRecorder()

		handler.Upload(testContext(w, req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation_error_from_service", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			UploadFunc: func(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
				return nil, models.ValidationError{Field: "title", Message: "title is required"}
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		req := testutil.CreateMultipartRequest("POST", "/api/images/upload", nil,
			"image", "suit.jpg", testutil.MakeTestJPEG(10, 10))
		w := httptest.NewRecorder()

		handler.Upload(testContext(w, req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response models.ErrorResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "title", response.Errors[0].Field)
	})

	t.Run("processing_error_is_500", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			UploadFunc: func(ctx context.Context, input service.UploadInput) (*service.UploadResult, error) {
				return nil, models.ProcessingError{Operation: "transcode", Reason: "corrupt image"}
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		req := testutil.CreateMultipartRequest("POST", "/api/images/upload", nil,
			"image", "suit.jpg", testutil.MakeTestJPEG(10, 10))
		w := httptest.NewRecorder()

		handler.Upload(testContext(w, req))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestImageHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("creates_from_url", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			CreateFromURLFunc: func(ctx context.Context, input service.CreateInput) (*models.AssetResponse, error) {
				return sampleResponse("abc"), nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		body := `{"title":"Hosted Hero","description":"d","imageUrl":"https://cdn.example.com/x.webp","altText":"Wide hero shot of storefront","category":"hero"}`
		req := httptest.NewRequest("POST", "/api/images", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(testContext(w, req))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing_image_url_rejected", func(t *testing.T) {
		handler := NewImageHandler(&testutil.MockCatalogService{}, testutil.TestConfig())

		req := httptest.NewRequest("POST", "/api/images", bytes.NewBufferString(`{"title":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(testContext(w, req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response models.ErrorResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		require.Len(t, response.Errors, 1)
		assert.Equal(t, "imageUrl", response.Errors[0].Field)
	})

	t.Run("malformed_json_rejected", func(t *testing.T) {
		handler := NewImageHandler(&testutil.MockCatalogService{}, testutil.TestConfig())

		req := httptest.NewRequest("POST", "/api/images", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.Create(testContext(w, req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImageHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("found", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			GetFunc: func(ctx context.Context, id string) (*models.AssetResponse, error) {
				assert.Equal(t, "abc", id)
				return sampleResponse("abc"), nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("GET", "/api/images/abc", nil))
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.Get(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not_found_is_404", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			GetFunc: func(ctx context.Context, id string) (*models.AssetResponse, error) {
				return nil, models.NotFoundError{Resource: "image", ID: id}
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("GET", "/api/images/missing", nil))
		c.Params = gin.Params{{Key: "id", Value: "missing"}}

		handler.Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response models.ErrorResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		assert.False(t, response.Success)
	})
}

func TestImageHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes_filter_through", func(t *testing.T) {
		var captured models.ListFilter
		catalog := &testutil.MockCatalogService{
			ListFunc: func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
				captured = filter
				return &models.ListResult{Images: []models.AssetResponse{}}, nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		req := httptest.NewRequest("GET", "/api/images?category=product&search=suit&page=2&limit=10&sortBy=title&sortOrder=asc&isActive=false&tags=wedding", nil)
		w := httptest.NewRecorder()

		handler.List(testContext(w, req))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "product", captured.Category)
		assert.Equal(t, "suit", captured.Search)
		assert.Equal(t, 2, captured.Page)
		assert.Equal(t, 10, captured.Limit)
		assert.Equal(t, "title", captured.SortBy)
		assert.Equal(t, "asc", captured.SortOrder)
		assert.Equal(t, []string{"wedding"}, captured.Tags)
		require.NotNil(t, captured.IsActive)
		assert.False(t, *captured.IsActive)
	})
}

func TestImageHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("absent_fields_not_forwarded", func(t *testing.T) {
		var captured service.UpdateInput
		catalog := &testutil.MockCatalogService{
			UpdateFunc: func(ctx context.Context, id string, input service.UpdateInput) (*models.AssetResponse, error) {
				captured = input
				return sampleResponse(id), nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("PUT", "/api/images/abc", bytes.NewBufferString(`{"title":"New Title"}`)))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured.Title)
		assert.Equal(t, "New Title", *captured.Title)
		assert.Nil(t, captured.Description)
		assert.False(t, captured.HasTags)
	})

	t.Run("explicit_empty_tags_forwarded", func(t *testing.T) {
		var captured service.UpdateInput
		catalog := &testutil.MockCatalogService{
			UpdateFunc: func(ctx context.Context, id string, input service.UpdateInput) (*models.AssetResponse, error) {
				captured = input
				return sampleResponse(id), nil
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("PUT", "/api/images/abc", bytes.NewBufferString(`{"tags":[]}`)))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.Update(c)

		assert.True(t, captured.HasTags)
		assert.Empty(t, captured.Tags)
	})
}

func TestImageHandler_Toggle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	catalog := &testutil.MockCatalogService{
		ToggleActiveFunc: func(ctx context.Context, id string) (*models.AssetResponse, error) {
			response := sampleResponse(id)
			response.IsActive = false
			return response, nil
		},
	}
	handler := NewImageHandler(catalog, testutil.TestConfig())

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest("PATCH", "/api/images/abc/toggle", nil))
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Toggle(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImageHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success_message", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			DeleteFunc: func(ctx context.Context, id string) error { return nil },
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("DELETE", "/api/images/abc", nil))
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response models.SuccessResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &response))
		assert.True(t, response.Success)
		assert.Equal(t, "Image deleted successfully", response.Message)
	})

	t.Run("not_found_is_404", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			DeleteFunc: func(ctx context.Context, id string) error {
				return models.NotFoundError{Resource: "image", ID: id}
			},
		}
		handler := NewImageHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("DELETE", "/api/images/missing", nil))
		c.Params = gin.Params{{Key: "id", Value: "missing"}}

		handler.Delete(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestImageHandler_Categories(t *testing.T) {
	gin.SetMode(gin.TestMode)

	catalog := &testutil.MockCatalogService{
		CategoryCountsFunc: func(ctx context.Context) ([]models.CategoryCount, error) {
			return []models.CategoryCount{
				{Name: "banner", Count: 1},
				{Name: "product", Count: 3},
			}, nil
		},
	}
	handler := NewImageHandler(catalog, testutil.TestConfig())

	w := httptest.NewRecorder()
	handler.Categories(testContext(w, httptest.NewRequest("GET", "/api/images/categories", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unknown_error_is_masked_in_production", func(t *testing.T) {
		cfg := testutil.TestConfig()
		cfg.Server.GinMode = "release"
		cfg.Logger.Format = "json"

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("GET", "/api/images", nil))
		handleServiceError(c, cfg, errors.New("badger: internal details"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "badger")
	})

	t.Run("unknown_error_is_detailed_in_development", func(t *testing.T) {
		cfg := testutil.TestConfig()

		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("GET", "/api/images", nil))
		handleServiceError(c, cfg, errors.New("badger: internal details"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "badger")
	})

	t.Run("auth_error_is_401", func(t *testing.T) {
		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest("GET", "/api/images", nil))
		handleServiceError(c, testutil.TestConfig(), models.AuthError{Reason: "expired"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
