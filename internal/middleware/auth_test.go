package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(secret string, handlerCalled *bool) *gin.Engine {
	router := gin.New()
	router.Use(BearerAuthMiddleware("revalidate", secret))
	router.Any("/webhook", func(c *gin.Context) {
		*handlerCalled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestBearerAuthMiddleware_ValidToken(t *testing.T) {
	handlerCalled := false
	router := newAuthRouter("webhook-secret-123", &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set("Authorization", "Bearer webhook-secret-123")

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "Handler should be called for a valid token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
	}{
		{name: "wrong token", secret: "s3cret", header: "Bearer nope"},
		{name: "missing header", secret: "s3cret", header: ""},
		{name: "no bearer prefix", secret: "s3cret", header: "s3cret"},
		{name: "lowercase scheme", secret: "s3cret", header: "bearer s3cret"},
		{name: "empty bearer", secret: "s3cret", header: "Bearer "},
		{name: "prefix of secret", secret: "s3cret", header: "Bearer s3cre"},
		{name: "double space", secret: "s3cret", header: "Bearer  s3cret"},
		{name: "padded token", secret: "s3cret", header: "Bearer s3cret "},
		{name: "secret not configured", secret: "", header: "Bearer "},
		{name: "secret not configured with token", secret: "", header: "Bearer anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			router := newAuthRouter(tt.secret, &handlerCalled)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			router.ServeHTTP(w, req)

			assert.False(t, handlerCalled)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "Invalid authorization token", body.Message)
		})
	}
}

func TestBearerAuthMiddleware_RunsBeforeMethodCheck(t *testing.T) {
	handlerCalled := false
	router := newAuthRouter("s3cret", &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
