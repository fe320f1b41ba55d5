package api

import (
	"catalogd/internal/api/handlers"
	"catalogd/internal/api/middleware"
	"catalogd/internal/config"
	"catalogd/internal/service"

	"github.com/gin-gonic/gin"
)

// Router holds the HTTP router and dependencies
type Router struct {
	engine        *gin.Engine
	config        *config.Config
	imageHandler  *handlers.ImageHandler
	publicHandler *handlers.PublicHandler
	healthHandler *handlers.HealthHandler
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(cfg *config.Config, catalogService service.CatalogService, healthService service.HealthService) *Router {
	// Set Gin mode based on config
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Create handlers
	imageHandler := handlers.NewImageHandler(catalogService, cfg)
	publicHandler := handlers.NewPublicHandler(catalogService, cfg)
	healthHandler := handlers.NewHealthHandler(healthService)

	router := &Router{
		engine:        engine,
		config:        cfg,
		imageHandler:  imageHandler,
		publicHandler: publicHandler,
		healthHandler: healthHandler,
	}

	// Setup middleware and routes
	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	// Basic middleware
	r.engine.Use(gin.Logger())
	r.engine.Use(gin.Recovery())

	// Request ID middleware for tracing
	r.engine.Use(middleware.RequestID())

	// CORS middleware
	r.engine.Use(middleware.CORS(r.config))

	// Security headers
	r.engine.Use(middleware.SecurityHeaders(r.config))

	// Rate limiting middleware
	r.engine.Use(middleware.RateLimit(r.config))

	// Request size limit middleware
	r.engine.Use(middleware.RequestSizeLimit(r.config.Image.MaxFileSize))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check endpoint (no prefix)
	r.engine.GET("/health", r.healthHandler.Check)

	// Local renditions are served directly; with S3 storage the asset
	// URLs point at the bucket instead
	if r.config.Storage.Type == "local" {
		r.engine.Static("/uploads", r.config.Storage.UploadDir)
	}

	images := r.engine.Group("/api/images")
	{
		// Public gallery endpoint, no authentication
		images.GET("/public", r.publicHandler.List)

		// Admin endpoints behind the bearer token
		admin := images.Group("")
		admin.Use(middleware.AdminAuth(r.config))
		{
			admin.GET("", r.imageHandler.List)
			admin.GET("/categories", r.imageHandler.Categories)
			admin.GET("/:id", r.imageHandler.Get)
			admin.POST("/upload", r.imageHandler.Upload)
			admin.POST("", r.imageHandler.Create)
			admin.PUT("/:id", r.imageHandler.Update)
			admin.PATCH("/:id/toggle", r.imageHandler.Toggle)
			admin.DELETE("/:id", r.imageHandler.Delete)
		}
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
