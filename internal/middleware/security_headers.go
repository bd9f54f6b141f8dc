package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all HTTP responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")

		c.Next()
	}
}

// NoStoreMiddleware forbids caching of webhook responses
func NoStoreMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}

// ContentCacheMiddleware lets CDNs hold content reads for maxAge seconds and
// serve stale copies while they refresh. Error responses override it.
func ContentCacheMiddleware(maxAge int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge*2)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
