package handlers

import (
	"net/http"

	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicHandler handles the unauthenticated gallery endpoint
type PublicHandler struct {
	catalog service.CatalogService
	config  *config.Config
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(catalog service.CatalogService, cfg *config.Config) *PublicHandler {
	return &PublicHandler{
		catalog: catalog,
		config:  cfg,
	}
}

// publicListing carries the raw assets plus their storefront product
// views; the product mapping guarantees no commerce field is ever null
type publicListing struct {
	Images     []models.AssetResponse `json:"images"`
	Products   []models.ProductView   `json:"products"`
	Pagination models.Pagination      `json:"pagination"`
}

// List handles GET /api/images/public
func (h *PublicHandler) List(c *gin.Context) {
	filter := parseListFilter(c)

	result, err := h.catalog.ListPublic(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	products := make([]models.ProductView, 0, len(result.Images))
	for i := range result.Images {
		products = append(products, result.Images[i].ToProductView())
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: publicListing{
			Images:     result.Images,
			Products:   products,
			Pagination: result.Pagination,
		},
	})
}
