package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/getmentor/contentbridge/pkg/logger"
	"github.com/getmentor/contentbridge/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sensitiveQueryParams are redacted from logs. The revalidate secret travels
// in the query string on some setups.
var sensitiveQueryParams = map[string]bool{
	"token": true, "secret": true, "access_token": true,
	"auth": true, "api_key": true, "apikey": true,
}

// quietRoutes are probed constantly and only logged when they fail
var quietRoutes = map[string]bool{
	"/api/healthcheck": true,
	"/api/metrics":     true,
}

// ObservabilityMiddleware instruments HTTP requests with metrics and logging
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		// Route is unknown until after routing, so the gauge is keyed by method only
		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template keeps label cardinality bounded: "/api/v1/items/:collection"
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, route, statusStr).Inc()

		if quietRoutes[route] && status < 400 {
			return
		}

		fields := []zap.Field{
			zap.String("route", route),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}

		if status >= 400 {
			if len(c.Params) > 0 {
				params := make(map[string]string, len(c.Params))
				for _, p := range c.Params {
					params[p.Key] = p.Value
				}
				fields = append(fields, zap.Any("route_params", params))
			}

			if query := sanitizedQuery(c); len(query) > 0 {
				fields = append(fields, zap.Any("query_params", query))
			}

			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("error", c.Errors.String()))
			}
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

func sanitizedQuery(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	sanitized := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) == 0 {
			continue
		}
		if sensitiveQueryParams[strings.ToLower(k)] {
			sanitized[k] = "[redacted]"
			continue
		}
		sanitized[k] = v[0]
	}
	return sanitized
}
