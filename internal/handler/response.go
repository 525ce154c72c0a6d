package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ackBody is the body PayFast expects with every notification acknowledgment.
const ackBody = "OK"

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// acknowledge answers a notification delivery. PayFast redelivers on anything
// but 200, so every outcome is acknowledged the same way.
func acknowledge(c *gin.Context) {
	if c.Writer.Written() {
		return
	}
	c.String(http.StatusOK, ackBody)
}
