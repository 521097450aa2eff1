package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware lets the map frontend call the API from its own origin. With
// no configured origins every origin is allowed. The request id header is
// exposed so the browser can quote it when reporting a failed render.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	wildcard := len(allowed) == 0
	for _, origin := range allowed {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if origin == "*" {
			wildcard = true
		}
		origins[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		headers := c.Writer.Header()
		requestOrigin := c.GetHeader("Origin")
		switch {
		case wildcard:
			headers.Set("Access-Control-Allow-Origin", "*")
		case requestOrigin != "":
			headers.Add("Vary", "Origin")
			if _, ok := origins[strings.ToLower(requestOrigin)]; ok {
				headers.Set("Access-Control-Allow-Origin", requestOrigin)
			}
		}
		headers.Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}
		headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		headers.Set("Access-Control-Max-Age", "600")
		c.AbortWithStatus(http.StatusNoContent)
	}
}
