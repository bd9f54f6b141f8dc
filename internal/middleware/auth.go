package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// BearerAuthMiddleware admits requests whose Authorization header carries
// "Bearer <secret>". An empty secret admits nobody.
func BearerAuthMiddleware(endpoint, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))

		if !ok || !timingSafeEqual(token, secret) {
			reason := "invalid token"
			switch {
			case secret == "":
				reason = "secret not configured"
			case !ok:
				reason = "missing bearer token"
			}
			logger.Warn("Unauthorized webhook request",
				zap.String("endpoint", endpoint),
				zap.String("reason", reason),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			metrics.WebhookEvents.WithLabelValues(endpoint, "", "unauthorized").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Invalid authorization token",
			})
			return
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	// Exact match: padding or extra spaces make a different token
	token := header[len(bearerPrefix):]
	return token, token != ""
}

// timingSafeEqual compares a presented token with the configured secret
func timingSafeEqual(token, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
