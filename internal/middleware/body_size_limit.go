package middleware

import (
	"net/http"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/gin-gonic/gin"
)

// WebhookBodyLimit is the largest webhook payload accepted
const WebhookBodyLimit = 1 << 20

// BodySizeLimitMiddleware rejects declared oversize bodies with 413 and caps
// the rest so a lying Content-Length fails during decoding.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Success: false,
				Message: "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

		c.Next()
	}
}
