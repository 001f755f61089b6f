// Package respond renders the uniform response envelope used by every API
// endpoint. All bodies have the shape
//
//	{"request_id": "...", "status": "success"|"failure", "message": "...", "data": ...}
//
// so clients and log pipelines can treat responses generically. The request ID
// comes from the gin context where RequestIDMiddleware stored it; handlers
// never touch the header themselves.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/middleware"
	"github.com/ticket-tracker/ticket-tracker/internal/services"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get(middleware.RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Success writes a success envelope with the given HTTP status and payload.
func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		RequestID: requestID(c),
		Status:    "success",
		Message:   message,
		Data:      data,
	})
}

// Failure writes a failure envelope with the given HTTP status.
func Failure(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		RequestID: requestID(c),
		Status:    "failure",
		Message:   message,
	})
}

// ServiceError maps a services sentinel error to an HTTP failure response.
// Unknown errors become a generic 500 so internal details never reach clients;
// the full error is logged with the request ID for correlation.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		Failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		Failure(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		Failure(c, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err, "request_id", requestID(c), "path", c.FullPath())
		Failure(c, http.StatusInternalServerError, "Internal server error")
	}
}
