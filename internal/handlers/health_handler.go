package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	cmsBreakerState func() string
}

// NewHealthHandler reports unhealthy while the CMS circuit breaker is open
func NewHealthHandler(cmsBreakerState func() string) *HealthHandler {
	return &HealthHandler{
		cmsBreakerState: cmsBreakerState,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	state := h.cmsBreakerState()
	if state == "open" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "content API circuit breaker open",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"content": state,
	})
}
