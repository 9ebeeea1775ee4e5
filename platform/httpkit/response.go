// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// pkgLog is used to record internal failures server-side before they are
// mapped to an opaque response. Set once at boot.
var pkgLog *logger.Logger

// SetLogger installs the logger used for internal error reporting.
func SetLogger(l *logger.Logger) {
	pkgLog = l
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message, code string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Code: code, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 Created response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values use their Kind for the status code and carry a
// stable machine code. Internal errors and untyped errors are logged with
// full detail server-side and surfaced as an opaque 500 response.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		if domainErr.Kind == apperr.KindInternal {
			logInternal(c, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "internal error",
				Code:  apperr.CodeInternal,
			})
			return true
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Code:    domainErr.ResponseCode(),
			Details: domainErr.Details,
		})
		return true
	}

	// Untyped errors are infrastructure failures; never leak their detail.
	logInternal(c, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal error",
		Code:  apperr.CodeInternal,
	})
	return true
}

func logInternal(c *gin.Context, err error) {
	if pkgLog == nil {
		return
	}
	pkgLog.Error("internal_error",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err.Error(),
	)
}
