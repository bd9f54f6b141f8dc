package handlers

import (
	"net/http"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/internal/services"
	"github.com/gin-gonic/gin"
)

// WebhookHandler receives CMS flow webhooks. Authentication runs in
// middleware before any of these handlers.
type WebhookHandler struct {
	revalidation services.RevalidationServiceInterface
	rebuild      services.RebuildServiceInterface
	exposeErrors bool
}

func NewWebhookHandler(
	revalidation services.RevalidationServiceInterface,
	rebuild services.RebuildServiceInterface,
	exposeErrors bool,
) *WebhookHandler {
	return &WebhookHandler{
		revalidation: revalidation,
		rebuild:      rebuild,
		exposeErrors: exposeErrors,
	}
}

// Revalidate handles ANY /api/v1/webhooks/revalidate
func (h *WebhookHandler) Revalidate(c *gin.Context) {
	event, ok := h.bindEvent(c)
	if !ok {
		return
	}

	resp, err := h.revalidation.Dispatch(c.Request.Context(), event)
	if err != nil {
		respondServiceError(c, http.StatusInternalServerError, "Internal server error during revalidation", err, h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Rebuild handles ANY /api/v1/webhooks/rebuild
func (h *WebhookHandler) Rebuild(c *gin.Context) {
	event, ok := h.bindEvent(c)
	if !ok {
		return
	}

	resp, err := h.rebuild.Trigger(c.Request.Context(), event)
	if err != nil {
		respondServiceError(c, http.StatusInternalServerError, "Internal server error during rebuild", err, h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *WebhookHandler) bindEvent(c *gin.Context) (*models.WebhookEvent, bool) {
	if methodNotAllowed(c) {
		return nil, false
	}

	var event models.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		if details := ParseValidationErrors(err); len(details) > 0 {
			respondErrorWithDetails(c, http.StatusBadRequest, "Invalid webhook payload", details, err)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, "Invalid webhook payload", err)
		return nil, false
	}

	return &event, true
}
