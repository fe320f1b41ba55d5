package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogd/internal/config"
	"catalogd/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(configure func(cfg *config.Config)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testutil.TestConfig()
	if configure != nil {
		configure(cfg)
	}

	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/api/images/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestCORS(t *testing.T) {
	t.Run("allowed_origin_echoed", func(t *testing.T) {
		router := corsRouter(nil)

		req := httptest.NewRequest("GET", "/api/images/public", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("preflight_short_circuits", func(t *testing.T) {
		router := corsRouter(nil)

		req := httptest.NewRequest("OPTIONS", "/api/images/public", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("disallowed_origin_gets_no_header", func(t *testing.T) {
		router := corsRouter(func(cfg *config.Config) {
			cfg.Server.GinMode = "release"
			cfg.Logger.Format = "json"
			cfg.CORS.AllowAllOrigins = false
			cfg.CORS.AllowedOrigins = []string{"https://shop.example.com"}
		})

		req := httptest.NewRequest("GET", "/api/images/public", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("exact_origin_allowlist_match", func(t *testing.T) {
		router := corsRouter(func(cfg *config.Config) {
			cfg.Server.GinMode = "release"
			cfg.Logger.Format = "json"
			cfg.CORS.AllowAllOrigins = false
			cfg.CORS.AllowedOrigins = []string{"https://shop.example.com"}
		})

		req := httptest.NewRequest("GET", "/api/images/public", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disabled_cors_sets_nothing", func(t *testing.T) {
		router := corsRouter(func(cfg *config.Config) {
			cfg.CORS.Enabled = false
		})

		req := httptest.NewRequest("GET", "/api/images/public", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("credentials_header_follows_config", func(t *testing.T) {
		router := corsRouter(func(cfg *config.Config) {
			cfg.CORS.AllowCredentials = true
		})

		req := httptest.NewRequest("GET", "/api/images/public", nil)
		req.Header.Set("Origin", "https://shop.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}
