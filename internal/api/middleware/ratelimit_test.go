package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogd/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// RateLimit keeps a process-wide limiter, so all subtests share one
// configuration and distinct client IPs keep their buckets apart.
func rateLimitRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testutil.TestConfig()
	cfg.RateLimit.Upload = 2
	cfg.RateLimit.Public = 100
	cfg.RateLimit.Admin = 100

	router := gin.New()
	router.Use(RateLimit(cfg))
	router.POST("/api/images/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/api/images/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func requestFrom(router *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	router := rateLimitRouter()

	t.Run("upload_endpoint_throttles_bursts", func(t *testing.T) {
		var last *httptest.ResponseRecorder
		limited := false
		// burst is 2x the per-minute limit, so the 5th rapid request
		// from one client must be rejected
		for i := 0; i < 5; i++ {
			last = requestFrom(router, "POST", "/api/images/upload", "10.0.0.1")
			if last.Code == http.StatusTooManyRequests {
				limited = true
			}
		}
		assert.True(t, limited)
		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Equal(t, "60", last.Header().Get("Retry-After"))
		assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
		assert.Contains(t, last.Body.String(), "Too many requests")
	})

	t.Run("clients_are_limited_independently", func(t *testing.T) {
		w := requestFrom(router, "POST", "/api/images/upload", "10.0.0.2")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("allowed_requests_carry_limit_headers", func(t *testing.T) {
		w := requestFrom(router, "GET", "/api/images/public", "10.0.0.3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "200", w.Header().Get("X-RateLimit-Burst"))
	})

	t.Run("unmatched_paths_are_not_limited", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			w := requestFrom(router, "GET", "/health", "10.0.0.4")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	})
}
