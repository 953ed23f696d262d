package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes answers 413 up front when the declared length is over max and
// caps the reader otherwise, so chunked bodies fail inside the JSON decoder.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			abortWithError(c, http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("Request body must not exceed %d bytes", max))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
