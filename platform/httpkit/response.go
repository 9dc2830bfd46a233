// Package httpkit provides HTTP middleware and response helpers shared by
// all module handlers.
package httpkit

import (
	"errors"
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope every handler returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes payload with 200.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an error envelope with the given status code.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes the HTTP rendering of err and reports whether anything
// was written. Kind-typed errors map to their status code; anything untyped
// is treated as a bad request so internals never leak a 500 by accident.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
