// Package respond writes the JSON envelope shared by every API route:
// {"message": ..., "error": ...} plus any payload keys.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/folio/internal/domain"
)

// StorageFailedMessage distinguishes media failures from database failures.
const StorageFailedMessage = "Failed to store project image"

// OK writes status with message and the payload keys merged in.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes an error envelope without detail.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Status maps a service error onto an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Messages picks the envelope message per error kind. Empty entries fall back
// to Server.
type Messages struct {
	Invalid  string
	NotFound string
	Server   string
}

// Error maps err onto a status and writes the envelope. Server-side failures
// are logged here so handlers stay flat.
func Error(c *gin.Context, err error, m Messages) {
	status := Status(err)
	message := m.Server
	switch {
	case status == http.StatusBadRequest && m.Invalid != "":
		message = m.Invalid
	case status == http.StatusNotFound && m.NotFound != "":
		Fail(c, status, m.NotFound)
		return
	case errors.Is(err, domain.ErrStorage):
		message = StorageFailedMessage
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"message": message, "error": err.Error()})
}
