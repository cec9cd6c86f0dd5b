// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the shared response helpers. Every error leaves through
// fail() with an ErrorResponse envelope; service errors are translated to
// status codes in one place by serviceError().
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"goal not found"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is the exported variant of fail() for router-level handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

var notFoundErrors = []error{
	services.ErrGoalNotFound,
	services.ErrEntryNotFound,
	services.ErrUserNotFound,
	services.ErrAchievementNotFound,
}

// serviceError maps an error returned by the core to a response. Storage
// details never reach the client; they are logged instead.
func serviceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ErrCodeValidation, ve.Msg)
		return
	case errors.Is(err, services.ErrValidation):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, nf.Error())
			return
		}
	}
	switch {
	case errors.Is(err, services.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("storage unavailable")
		c.Header("Retry-After", "1")
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "storage busy, retry later")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("request failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
