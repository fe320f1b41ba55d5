package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"catalogd/internal/api/middleware"
	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/internal/service"
	"catalogd/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler handles the admin catalog endpoints
type ImageHandler struct {
	catalog service.CatalogService
	config  *config.Config
}

// NewImageHandler creates a new image handler
func NewImageHandler(catalog service.CatalogService, cfg *config.Config) *ImageHandler {
	return &ImageHandler{
		catalog: catalog,
		config:  cfg,
	}
}

// uploadResponse flattens the asset with the one-time pipeline output
type uploadResponse struct {
	models.AssetResponse
	SEOAnalysis    *service.SEOAnalysis   `json:"seoAnalysis"`
	ProcessingInfo service.ProcessingInfo `json:"processingInfo"`
}

// Upload handles POST /api/images/upload
func (h *ImageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors: []models.ValidationError{
				{Field: "image", Message: "image file is required"},
			},
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors: []models.ValidationError{
				{Field: "image", Message: "only image uploads are accepted"},
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	logger.InfoWithContext(c.Request.Context(), "Upload received",
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
		zap.String("content_type", contentType))

	input := service.UploadInput{
		Filename:     fileHeader.Filename,
		ContentType:  contentType,
		Data:         data,
		Size:         fileHeader.Size,
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		AltText:      c.PostForm("altText"),
		SEOTitle:     c.PostForm("seoTitle"),
		SEODesc:      c.PostForm("seoDescription"),
		FocusKeyword: c.PostForm("focusKeyword"),
		Category:     c.PostForm("category"),
		Tags:         models.ParseTagList(c.PostForm("tags")),
		DisplayOrder: formInt(c, "displayOrder", 0),
		Quality:      formInt(c, "quality", 0),
		MaxWidth:     formInt(c, "maxWidth", 0),
		MaxHeight:    formInt(c, "maxHeight", 0),
		UploadedBy:   c.GetString(middleware.SubjectKey),
	}
	if v := c.PostForm("isActive"); v != "" {
		active := v == "true" || v == "1"
		input.IsActive = &active
	}

	result, err := h.catalog.Upload(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data: uploadResponse{
			AssetResponse:  result.Asset,
			SEOAnalysis:    result.SEOAnalysis,
			ProcessingInfo: result.ProcessingInfo,
		},
	})
}

// createRequest is the JSON body of the legacy create-by-URL flow
type createRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"imageUrl"`
	AltText        string   `json:"altText"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	FocusKeyword   string   `json:"focusKeyword"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	IsActive       *bool    `json:"isActive"`
	DisplayOrder   int      `json:"displayOrder"`
}

// Create handles POST /api/images (legacy URL path)
func (h *ImageHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return
	}

	if strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors: []models.ValidationError{
				{Field: "imageUrl", Message: "imageUrl is required"},
			},
		})
		return
	}

	asset, err := h.catalog.CreateFromURL(c.Request.Context(), service.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		AltText:      req.AltText,
		SEOTitle:     req.SEOTitle,
		SEODesc:      req.SEODescription,
		FocusKeyword: req.FocusKeyword,
		Category:     req.Category,
		Tags:         req.Tags,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
		UploadedBy:   c.GetString(middleware.SubjectKey),
	})
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    asset,
	})
}

// List handles GET /api/images
func (h *ImageHandler) List(c *gin.Context) {
	filter := parseListFilter(c)
	if v := c.Query("isActive"); v != "" {
		active := v == "true" || v == "1"
		filter.IsActive = &active
	}

	result, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    result,
	})
}

// Get handles GET /api/images/:id
func (h *ImageHandler) Get(c *gin.Context) {
	asset, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    asset,
	})
}

// updateRequest is the JSON body of a partial update; absent fields stay
// untouched, which is why everything is a pointer
type updateRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	ImageURL       *string   `json:"imageUrl"`
	AltText        *string   `json:"altText"`
	SEOTitle       *string   `json:"seoTitle"`
	SEODescription *string   `json:"seoDescription"`
	FocusKeyword   *string   `json:"focusKeyword"`
	Category       *string   `json:"category"`
	Tags           *[]string `json:"tags"`
	IsActive       *bool     `json:"isActive"`
	DisplayOrder   *int      `json:"displayOrder"`
}

// Update handles PUT /api/images/:id
func (h *ImageHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return
	}

	input := service.UpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		AltText:      req.AltText,
		SEOTitle:     req.SEOTitle,
		SEODesc:      req.SEODescription,
		FocusKeyword: req.FocusKeyword,
		Category:     req.Category,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
		input.HasTags = true
	}

	asset, err := h.catalog.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    asset,
	})
}

// Toggle handles PATCH /api/images/:id/toggle
func (h *ImageHandler) Toggle(c *gin.Context) {
	asset, err := h.catalog.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    asset,
	})
}

// Delete handles DELETE /api/images/:id
func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Image deleted successfully",
	})
}

// Categories handles GET /api/images/categories
func (h *ImageHandler) Categories(c *gin.Context) {
	counts, err := h.catalog.CategoryCounts(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.config, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    counts,
	})
}

// Shared query helpers

// parseListFilter reads the common list query parameters
func parseListFilter(c *gin.Context) models.ListFilter {
	return models.ListFilter{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		Tags:      models.ParseTagList(c.Query("tags")),
		Page:      queryInt(c, "page", 0),
		Limit:     queryInt(c, "limit", 0),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// queryInt parses an integer query parameter with a default
func queryInt(c *gin.Context, name string, defaultValue int) int {
	if v := c.Query(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// formInt parses an integer form field with a default
func formInt(c *gin.Context, name string, defaultValue int) int {
	if v := c.PostForm(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
