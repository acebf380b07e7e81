// Package response provides the JSON envelope helpers for webhook replies.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard response envelope.
type Body struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

// Success sends 200 with status "success" and any extra fields merged in.
func Success(c *gin.Context, message string, extra gin.H) {
	out := gin.H{"status": "success", "message": message}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(http.StatusOK, out)
}

// Warning sends 200 with status "warning". Used for acknowledged but
// unhandled events, which must not look like failures to the provider.
func Warning(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Body{Status: "warning", Message: message})
}

// BadRequest sends 400 with status "error".
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Body{Status: "error", Message: message})
}

// BadRequestWith sends 400 with extra fields merged in (e.g. format hints).
func BadRequestWith(c *gin.Context, message string, extra gin.H) {
	out := gin.H{"status": "error", "message": message}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(http.StatusBadRequest, out)
}

// Unauthorized sends 401 with status "error".
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Body{Status: "error", Message: message})
}

// Error sends the given status with status "error" and an error detail.
func Error(c *gin.Context, code int, message string, detail any) {
	c.JSON(code, Body{Status: "error", Message: message, Error: detail})
}

// Internal sends 500 with a generic message plus the fault text.
func Internal(c *gin.Context, message, fault string) {
	c.JSON(http.StatusInternalServerError, Body{Status: "error", Message: message, Error: fault})
}

// Challenge writes a ping challenge back verbatim as the raw response body.
func Challenge(c *gin.Context, challenge string) {
	c.String(http.StatusOK, "%s", challenge)
}
