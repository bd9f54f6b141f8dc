package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/getmentor/contentbridge/internal/models"
	"github.com/getmentor/contentbridge/internal/services"
	"github.com/getmentor/contentbridge/pkg/directus"
	apperrors "github.com/getmentor/contentbridge/pkg/errors"
	"github.com/gin-gonic/gin"
)

const maxResponsiveWidths = 12

type ContentHandler struct {
	service      services.ContentServiceInterface
	exposeErrors bool
}

func NewContentHandler(service services.ContentServiceInterface, exposeErrors bool) *ContentHandler {
	return &ContentHandler{service: service, exposeErrors: exposeErrors}
}

// ListItems handles GET /api/v1/items/:collection
func (h *ContentHandler) ListItems(c *gin.Context) {
	var params models.ItemsQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid query", ParseValidationErrors(err), err)
		return
	}

	q, err := itemsQuery(params)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), c.Param("collection"), q)
	if err != nil {
		respondServiceError(c, apperrors.StatusCode(err), "Failed to fetch items", err, h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, models.ItemsResponse{Data: items, Count: len(items)})
}

// GetItem handles GET /api/v1/items/:collection/:id
func (h *ContentHandler) GetItem(c *gin.Context) {
	var params models.ItemQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query", err)
		return
	}

	q := directus.Query{Fields: splitCSV(params.Fields)}
	if params.Deep != "" {
		if err := json.Unmarshal([]byte(params.Deep), &q.Deep); err != nil {
			respondError(c, http.StatusBadRequest, "deep must be a JSON object", err)
			return
		}
	}

	collection := c.Param("collection")
	item, err := h.service.GetItem(c.Request.Context(), collection, c.Param("id"), q)
	if err != nil {
		respondServiceError(c, apperrors.StatusCode(err), "Failed to fetch item", err, h.exposeErrors)
		return
	}
	if item == nil {
		respondError(c, http.StatusNotFound, "Item not found", apperrors.NotFoundError(collection+"/"+c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, models.ItemResponse{Data: item})
}

// StaticPaths handles GET /api/v1/paths/:collection
func (h *ContentHandler) StaticPaths(c *gin.Context) {
	paths, err := h.service.StaticPaths(c.Request.Context(), c.Param("collection"), c.DefaultQuery("field", "slug"))
	if err != nil {
		respondServiceError(c, apperrors.StatusCode(err), "Failed to fetch paths", err, h.exposeErrors)
		return
	}

	c.JSON(http.StatusOK, paths)
}

// AssetURL handles GET /api/v1/assets/:id/url
func (h *ContentHandler) AssetURL(c *gin.Context) {
	params, ok := bindAssetQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.AssetURLResponse{URL: h.service.AssetURL(c.Param("id"), transform(params))})
}

// SrcSet handles GET /api/v1/assets/:id/srcset
func (h *ContentHandler) SrcSet(c *gin.Context) {
	params, ok := bindAssetQuery(c)
	if !ok {
		return
	}

	widths, err := parseWidths(params.Widths)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, h.service.ResponsiveImages(c.Param("id"), widths))
}

// Image handles GET /api/v1/assets/:id/image
func (h *ContentHandler) Image(c *gin.Context) {
	params, ok := bindAssetQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.ImageProps(c.Param("id"), transform(params), params.Alt))
}

// BlurDataURL handles GET /api/v1/assets/:id/blur
func (h *ContentHandler) BlurDataURL(c *gin.Context) {
	c.JSON(http.StatusOK, models.AssetURLResponse{URL: h.service.BlurDataURL(c.Param("id"))})
}

func bindAssetQuery(c *gin.Context) (models.AssetQuery, bool) {
	var params models.AssetQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid transform", ParseValidationErrors(err), err)
		return params, false
	}
	return params, true
}

func transform(params models.AssetQuery) directus.Transform {
	return directus.Transform{
		Width:   params.Width,
		Height:  params.Height,
		Quality: params.Quality,
		Format:  params.Format,
		Fit:     params.Fit,
	}
}

func itemsQuery(params models.ItemsQuery) (directus.Query, error) {
	q := directus.Query{
		Fields: splitCSV(params.Fields),
		Sort:   splitCSV(params.Sort),
		Limit:  params.Limit,
		Offset: params.Offset,
		Page:   params.Page,
		Search: params.Search,
		Meta:   params.Meta,
	}
	if params.Filter != "" {
		if err := json.Unmarshal([]byte(params.Filter), &q.Filter); err != nil {
			return q, apperrors.InvalidInputError("filter", "must be a JSON object")
		}
	}
	if params.Deep != "" {
		if err := json.Unmarshal([]byte(params.Deep), &q.Deep); err != nil {
			return q, apperrors.InvalidInputError("deep", "must be a JSON object")
		}
	}
	return q, nil
}

func parseWidths(raw string) ([]int, error) {
	parts := splitCSV(raw)
	if len(parts) > maxResponsiveWidths {
		return nil, apperrors.InvalidInputError("widths", "too many widths")
	}
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(p)
		if err != nil || w <= 0 || w > 8192 {
			return nil, apperrors.InvalidInputError("widths", "must be positive integers")
		}
		widths = append(widths, w)
	}
	return widths, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
