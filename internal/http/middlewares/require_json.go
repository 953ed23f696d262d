package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects write requests whose body is not JSON. Media type
// parameters such as charset are ignored, and "+json" suffixes are accepted.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		mediaType := strings.ToLower(c.ContentType())
		if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
			c.Next()
			return
		}

		abortWithError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
	}
}

// abortWithError writes the same envelope as the handlers package, which
// middlewares cannot import.
func abortWithError(c *gin.Context, status int, code, message string) {
	body := gin.H{"code": code, "message": message}
	if id := c.GetString(CtxRequestID); id != "" {
		body["requestId"] = id
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
