package handlers

import (
	"net/http"

	"github.com/getmentor/contentbridge/internal/models"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends the standard failure body and attaches err for logging
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.Header("Cache-Control", "no-store")
	c.JSON(status, models.ErrorResponse{Success: false, Message: message})
}

// respondErrorWithDetails sends a failure body listing invalid fields
func respondErrorWithDetails(c *gin.Context, status int, message string, details []models.ValidationError, err error) { //nolint:unparam
	attachError(c, err)
	c.Header("Cache-Control", "no-store")
	c.JSON(status, models.ErrorResponse{Success: false, Message: message, Details: details})
}

// respondServiceError answers with status and the standard failure body. The
// raw error text is only exposed when exposeDetail is set, i.e. in development.
func respondServiceError(c *gin.Context, status int, message string, err error, exposeDetail bool) {
	attachError(c, err)
	body := models.ErrorResponse{Success: false, Message: message}
	if exposeDetail {
		body.Error = err.Error()
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, body)
}

// methodNotAllowed answers 405 for anything but POST
func methodNotAllowed(c *gin.Context) bool {
	if c.Request.Method == http.MethodPost {
		return false
	}
	c.Header("Allow", http.MethodPost)
	respondError(c, http.StatusMethodNotAllowed, "Method not allowed", apperrors.MethodError(c.Request.Method))
	return true
}
