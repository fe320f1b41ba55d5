package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogd/internal/models"
	"catalogd/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns_images_and_product_views", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			ListPublicFunc: func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
				return &models.ListResult{
					Images: []models.AssetResponse{*sampleResponse("abc")},
					Pagination: models.Pagination{
						CurrentPage: 1,
						TotalPages:  1,
						TotalCount:  1,
					},
				}, nil
			},
		}
		handler := NewPublicHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		handler.List(testContext(w, httptest.NewRequest("GET", "/api/images/public", nil)))

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Success bool          `json:"success"`
			Data    publicListing `json:"data"`
		}
		require.NoError(t, testutil.ParseJSONResponse(w, &envelope))
		assert.True(t, envelope.Success)
		require.Len(t, envelope.Data.Images, 1)
		require.Len(t, envelope.Data.Products, 1)

		product := envelope.Data.Products[0]
		assert.Equal(t, "abc", product.ID)
		assert.Equal(t, "Blue Wedding Suit", product.Name)
		assert.Equal(t, float64(0), product.Price)
		assert.Equal(t, []string{"S", "M", "L", "XL"}, product.Sizes)
		assert.Equal(t, []string{"as shown"}, product.Colors)
		assert.True(t, product.Available)
		assert.Equal(t, "in-stock", product.Stock)
	})

	t.Run("empty_listing_marshals_empty_arrays", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			ListPublicFunc: func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
				return &models.ListResult{Images: []models.AssetResponse{}}, nil
			},
		}
		handler := NewPublicHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		handler.List(testContext(w, httptest.NewRequest("GET", "/api/images/public", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"products":[]`)
	})

	t.Run("unknown_category_is_400", func(t *testing.T) {
		catalog := &testutil.MockCatalogService{
			ListPublicFunc: func(ctx context.Context, filter models.ListFilter) (*models.ListResult, error) {
				return nil, models.ValidationError{Field: "category", Message: "unknown category"}
			},
		}
		handler := NewPublicHandler(catalog, testutil.TestConfig())

		w := httptest.NewRecorder()
		handler.List(testContext(w, httptest.NewRequest("GET", "/api/images/public?category=misc", nil)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
