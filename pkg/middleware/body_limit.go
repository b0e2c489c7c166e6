package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MsgTooLarge is the error body for requests over the size cap.
const MsgTooLarge = "File too large"

// BodyLimit caps request bodies at max bytes. A declared Content-Length over
// the cap is refused with 413 right away; other bodies are wrapped in
// http.MaxBytesReader so reading past the cap fails with *http.MaxBytesError.
// max <= 0 disables the cap.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > max {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgTooLarge})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
