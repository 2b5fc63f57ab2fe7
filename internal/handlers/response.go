package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/MOOQU/CF-License-Server/internal/services"

	"github.com/gin-gonic/gin"
)

// Response status values that are not owned by a service
const (
	statusSuccess        = "success"
	statusNotFound       = "not_found"
	statusInvalidRequest = "invalid_request"
	statusUnavailable    = "unavailable"
	statusError          = "error"
)

// retryAfterSeconds is what clients are told to wait after a transient failure
const retryAfterSeconds = "1"

// respondError writes the response for errors a handler did not map itself.
// Transient failures become 503 with Retry-After; every operation is safe
// to repeat.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"status": statusInvalidRequest})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": statusNotFound})
	case errors.Is(err, services.ErrTransient),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		log.Printf("Transient failure on %s: %v", c.FullPath(), err)
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusUnavailable})
	default:
		log.Printf("Unexpected failure on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": statusError})
	}
}

// badRequest rejects a body that failed to bind
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": statusInvalidRequest,
		"error":  err.Error(),
	})
}
