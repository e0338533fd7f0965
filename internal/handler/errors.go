package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/dto"
)

// statusOf maps an error kind to its HTTP status. This is the only
// place error kinds become status codes.
func statusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized, apperrors.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError writes the uniform error envelope for err.
func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), dto.ErrorResponse{
		Error:     apperrors.MessageOf(err),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// abortError writes the error envelope and stops the handler chain.
func abortError(c *gin.Context, err error) {
	respondError(c, err)
	c.Abort()
}

// respondOK writes the uniform success envelope.
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// bindError wraps a gin binding failure as a validation error.
func bindError(err error) error {
	return apperrors.Validation("Invalid request: " + err.Error())
}
