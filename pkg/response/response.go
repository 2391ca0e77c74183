package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/complianceops/case-management-api/pkg/errors"
)

// The API keeps the upstream wire contract: endpoints return raw arrays
// and objects, errors return {"error": message} with the mapped status.

// JSON writes a success payload with the given status.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error maps the error to its HTTP status and writes the error body.
// Status-code mapping lives here and nowhere else.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
