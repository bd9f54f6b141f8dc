package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmentor/contentbridge/pkg/directus"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newContentRouter(service *mockContentService) *gin.Engine {
	handler := NewContentHandler(service, false)
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/items/:collection", handler.ListItems)
	v1.GET("/items/:collection/:id", handler.GetItem)
	v1.GET("/paths/:collection", handler.StaticPaths)
	v1.GET("/assets/:id/url", handler.AssetURL)
	v1.GET("/assets/:id/srcset", handler.SrcSet)
	v1.GET("/assets/:id/image", handler.Image)
	v1.GET("/assets/:id/blur", handler.BlurDataURL)
	return router
}

func TestContentHandler_ListItems(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("ListItems", mock.Anything, "blog_posts", directus.Query{
		Fields: []string{"id", "title"},
		Sort:   []string{"-date_published"},
		Limit:  5,
		Filter: directus.Filter{"featured": map[string]any{"_eq": true}},
	}).Return([]directus.Item{{"id": "1"}}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		`/api/v1/items/blog_posts?fields=id,title&sort=-date_published&limit=5&filter=%7B%22featured%22%3A%7B%22_eq%22%3Atrue%7D%7D`, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":"1"}],"count":1}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestContentHandler_ListItems_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "bad filter", query: "filter=not-json"},
		{name: "limit below -1", query: "limit=-5"},
		{name: "bad meta", query: "meta=everything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockContentService)
			router := newContentRouter(service)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/pages?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			service.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestContentHandler_ListItems_UpstreamError(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("ListItems", mock.Anything, "pages", directus.Query{}).
		Return(nil, apperrors.NewRemoteError("directus", 503, "")).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/pages", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestContentHandler_GetItem_NotFound(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("GetItem", mock.Anything, "pages", "missing", directus.Query{}).Return(nil, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/pages/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Item not found"}`, w.Body.String())
}

func TestContentHandler_GetItem(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("GetItem", mock.Anything, "globals", "site_settings", directus.Query{Fields: []string{"title"}}).
		Return(directus.Item{"title": "Site"}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/globals/site_settings?fields=title", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"title":"Site"}}`, w.Body.String())
}

func TestContentHandler_StaticPaths(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("StaticPaths", mock.Anything, "blog_posts", "slug").Return(&directus.StaticPaths{
		Paths:    []directus.StaticPath{{Params: map[string]string{"slug": "hello"}}},
		Fallback: directus.FallbackBlocking,
	}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/paths/blog_posts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"paths":[{"params":{"slug":"hello"}}],"fallback":"blocking"}`, w.Body.String())
}

func TestContentHandler_AssetURL(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("AssetURL", "abc", directus.Transform{Width: 640, Format: "avif"}).
		Return("http://cms.local/assets/abc?width=640&quality=85&format=avif").Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc/url?width=640&format=avif", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"http://cms.local/assets/abc?width=640&quality=85&format=avif"}`, w.Body.String())
}

func TestContentHandler_AssetURL_InvalidTransform(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc/url?quality=300", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Quality must not exceed 100")
}

func TestContentHandler_SrcSet(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("ResponsiveImages", "abc", []int{400, 800}).Return(&directus.ResponsiveImage{
		Src:    "src",
		SrcSet: "a 400w, b 800w",
		Sizes:  "(max-width: 400px) 400px, 800px",
	}).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc/srcset?widths=400,800", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestContentHandler_SrcSet_BadWidths(t *testing.T) {
	router := newContentRouter(new(mockContentService))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc/srcset?widths=400,wide", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentHandler_BlurDataURL(t *testing.T) {
	service := new(mockContentService)
	router := newContentRouter(service)

	service.On("BlurDataURL", "abc").Return("blur-url").Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/abc/blur", nil))

	assert.JSONEq(t, `{"url":"blur-url"}`, w.Body.String())
}
