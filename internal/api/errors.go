package api

import (
	"errors"
	"net/http"

	"token-rush-go/internal/metrics"
	"token-rush-go/internal/models"
	"token-rush-go/internal/session"
	"token-rush-go/internal/transfer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps an error to the HTTP status and the message returned to the
// client. Anything unrecognized becomes a 500 carrying fallback, so provider
// details never reach the response.
func statusFor(err error, fallback string) (int, string) {
	var guardErr *session.Error
	if errors.As(err, &guardErr) {
		if errors.Is(err, session.ErrNoSession) {
			return http.StatusUnauthorized, guardErr.Code
		}
		return http.StatusForbidden, guardErr.Code
	}

	if errors.Is(err, transfer.ErrInvalidAuthToken) {
		return http.StatusUnauthorized, "Invalid authentication token"
	}

	var validationErr *transfer.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	return http.StatusInternalServerError, fallback
}

// abortWithError logs err and writes the mapped {"error": ...} response
func abortWithError(c *gin.Context, err error, fallback string) {
	status, message := statusFor(err, fallback)

	fields := []zap.Field{
		zap.String("route", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if rc := models.GetRequestContext(c.Request.Context()); rc != nil {
		fields = append(fields, zap.String("request_id", rc.RequestId))
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error(fallback, fields...)
	} else {
		zap.L().Warn("Request rejected", append(fields, zap.String("reason", message))...)
	}

	var guardErr *session.Error
	if errors.As(err, &guardErr) {
		metrics.GuardRejections.WithLabelValues(guardErr.Code).Inc()
	}

	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: message})
}
