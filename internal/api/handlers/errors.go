package handlers

import (
	"net/http"

	"catalogd/internal/config"
	"catalogd/internal/models"
	"catalogd/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError converts service errors into the uniform error
// envelope. Internal detail reaches the client only in development mode;
// production responses stay generic while the full error is logged.
func handleServiceError(c *gin.Context, cfg *config.Config, err error) {
	ctx := c.Request.Context()

	switch e := err.(type) {
	case models.ValidationError:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  []models.ValidationError{e},
		})

	case models.NotFoundError:
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Message: e.Error(),
		})

	case models.AuthError:
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Message: "Unauthorized",
		})

	case models.ProcessingError:
		logger.ErrorWithContext(ctx, "Image processing failed",
			zap.String("operation", e.Operation),
			zap.String("reason", e.Reason))
		message := "Image processing failed"
		if cfg.IsDevelopment() {
			message = e.Error()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: message,
		})

	case models.StorageError:
		logger.ErrorWithContext(ctx, "Storage operation failed",
			zap.String("operation", e.Operation),
			zap.String("backend", e.Backend),
			zap.String("reason", e.Reason))
		message := "Internal server error"
		if cfg.IsDevelopment() {
			message = e.Error()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: message,
		})

	default:
		logger.ErrorWithContext(ctx, "Unexpected error",
			zap.Error(err))
		message := "Internal server error"
		if cfg.IsDevelopment() {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: message,
		})
	}
}
