package middleware

import (
	"net/http"
	"strings"

	"catalogd/internal/auth"
	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubjectKey is the context key for the authenticated admin subject
const SubjectKey = "auth_subject"

// AdminAuth validates the bearer token on admin routes. Every rejection
// returns the same 401 body so callers learn nothing about why a token
// failed.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip authentication if disabled
		if !cfg.Auth.Enabled {
			c.Next()
			return
		}

		requestID := c.GetString(RequestIDKey)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			logger.WarnWithContext(c.Request.Context(), "Missing bearer token",
				zap.String("request_id", requestID))
			rejectUnauthorized(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		subject, err := auth.Verify(cfg.Auth.TokenSecret, token)
		if err != nil {
			logger.WarnWithContext(c.Request.Context(), "Bearer token rejected",
				zap.String("request_id", requestID),
				zap.Error(err))
			rejectUnauthorized(c)
			return
		}

		c.Set(SubjectKey, subject)

		logger.DebugWithContext(c.Request.Context(), "Admin authenticated",
			zap.String("request_id", requestID),
			zap.String("subject", subject))

		c.Next()
	}
}

// rejectUnauthorized aborts with the uniform 401 envelope
func rejectUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Message: "Unauthorized",
	})
	c.Abort()
}
