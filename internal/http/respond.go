package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-identity/internal/service"
)

// respondData escribe el envelope de éxito {"data": ...}.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// respondError traduce el error de dominio a status y mensaje. Los 5xx se
// loguean con el detalle; al cliente solo llega el mensaje genérico.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := errorResponse(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, service.ErrDirectoryRecordNotFound):
		return http.StatusForbidden, "No institutional record found for this email"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, service.ErrUnauthorizedDomain):
		return http.StatusForbidden, "Email domain is not authorized"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	case errors.Is(err, service.ErrMissingIDToken):
		return http.StatusInternalServerError, "Identity provider returned no id_token"
	case errors.Is(err, service.ErrTokenExchangeFailed):
		return http.StatusInternalServerError, "Token exchange failed"
	case errors.Is(err, service.ErrPersistence):
		return http.StatusInternalServerError, "Could not save account"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func invalidRequest(detail string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, detail)
}
