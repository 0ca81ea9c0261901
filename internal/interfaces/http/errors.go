package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// statusFor maps an apperrors kind onto its HTTP status.
func statusFor(err error) int {
	switch {
	case apperrors.IsValidationError(err), apperrors.IsBadRequestError(err):
		return http.StatusBadRequest
	case apperrors.IsUnauthorizedError(err):
		return http.StatusUnauthorized
	case apperrors.IsForbiddenError(err):
		return http.StatusForbidden
	case apperrors.IsNotFoundError(err):
		return http.StatusNotFound
	case apperrors.IsDuplicateError(err), apperrors.IsConflictError(err):
		return http.StatusConflict
	case apperrors.IsRateLimitedError(err):
		return http.StatusTooManyRequests
	case apperrors.IsUpstreamError(err):
		return http.StatusBadGateway
	case apperrors.IsUnavailableError(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

var defaultMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not found",
	http.StatusConflict:            "Conflict",
	http.StatusTooManyRequests:     "Rate limit exceeded",
	http.StatusBadGateway:          "Upstream service failed",
	http.StatusServiceUnavailable:  "Service unavailable",
	http.StatusInternalServerError: "Internal server error",
}

// respondError writes {"error": msg}. Messages set through apperrors are
// returned as is; other errors only expose a generic text.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg, ok := apperrors.PublicMessage(err)
	if !ok {
		msg = defaultMessages[status]
	}
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// bindJSON decodes the request body into dst and answers 400 or 413 itself
// when that fails.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if isMaxBytes(err) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return false
		}
		respondError(c, apperrors.BadRequest("Invalid request body"))
		return false
	}
	return true
}
