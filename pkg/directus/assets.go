package directus

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultQuality = 85
	DefaultFormat  = "webp"

	defaultImageWidth  = 1200
	defaultImageHeight = 800
	responsiveSrcWidth = 1024
)

// DefaultWidths are the breakpoints used for responsive srcsets
var DefaultWidths = []int{320, 640, 1024, 1920}

// Transform describes an on-the-fly asset transformation. Zero values are omitted.
type Transform struct {
	Width   int    `form:"width" json:"width,omitempty"`
	Height  int    `form:"height" json:"height,omitempty"`
	Quality int    `form:"quality" json:"quality,omitempty"`
	Format  string `form:"format" json:"format,omitempty"`
	Fit     string `form:"fit" json:"fit,omitempty"`
}

// ResponsiveImage holds img attributes for a responsive asset
type ResponsiveImage struct {
	Src    string `json:"src"`
	SrcSet string `json:"srcset"`
	Sizes  string `json:"sizes"`
}

// Image holds the props an image component needs
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// AssetURL builds a transformed asset URL. An empty assetID yields "".
// Quality and format default to 85 and webp.
func AssetURL(baseURL, assetID string, t Transform) string {
	if assetID == "" {
		return ""
	}

	quality := t.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	format := t.Format
	if format == "" {
		format = DefaultFormat
	}

	params := make([]string, 0, 5)
	if t.Width > 0 {
		params = append(params, "width="+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		params = append(params, "height="+strconv.Itoa(t.Height))
	}
	params = append(params, "quality="+strconv.Itoa(quality))
	params = append(params, "format="+url.QueryEscape(format))
	if t.Fit != "" {
		params = append(params, "fit="+url.QueryEscape(t.Fit))
	}

	return assetBase(baseURL, assetID) + "?" + strings.Join(params, "&")
}

// SrcSet joins one "url Ww" descriptor per width with ", "
func SrcSet(baseURL, assetID string, widths []int) string {
	if assetID == "" {
		return ""
	}
	descriptors := make([]string, 0, len(widths))
	for _, w := range widths {
		descriptors = append(descriptors, fmt.Sprintf("%s %dw", AssetURL(baseURL, assetID, Transform{Width: w}), w))
	}
	return strings.Join(descriptors, ", ")
}

// Sizes builds a sizes attribute that picks the breakpoint matching the viewport
func Sizes(widths []int) string {
	if len(widths) == 0 {
		return ""
	}
	parts := make([]string, 0, len(widths))
	for _, w := range widths[:len(widths)-1] {
		parts = append(parts, fmt.Sprintf("(max-width: %dpx) %dpx", w, w))
	}
	parts = append(parts, fmt.Sprintf("%dpx", widths[len(widths)-1]))
	return strings.Join(parts, ", ")
}

// ResponsiveImages returns src/srcset/sizes for assetID, or nil if there is no asset.
// Nil or empty widths use DefaultWidths.
func ResponsiveImages(baseURL, assetID string, widths []int) *ResponsiveImage {
	if assetID == "" {
		return nil
	}
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	return &ResponsiveImage{
		Src:    AssetURL(baseURL, assetID, Transform{Width: responsiveSrcWidth}),
		SrcSet: SrcSet(baseURL, assetID, widths),
		Sizes:  Sizes(widths),
	}
}

// ImageProps returns image component props, defaulting to 1200x800
func ImageProps(baseURL, assetID string, t Transform, alt string) *Image {
	if assetID == "" {
		return nil
	}
	width, height := t.Width, t.Height
	if width == 0 {
		width = defaultImageWidth
	}
	if height == 0 {
		height = defaultImageHeight
	}
	return &Image{
		Src:    AssetURL(baseURL, assetID, t),
		Width:  width,
		Height: height,
		Alt:    alt,
	}
}

// BlurDataURL returns a tiny blurred rendition used as a loading placeholder
func BlurDataURL(baseURL, assetID string) string {
	if assetID == "" {
		return ""
	}
	return assetBase(baseURL, assetID) + "?width=10&height=10&quality=1&blur=10&format=webp"
}

func assetBase(baseURL, assetID string) string {
	return strings.TrimRight(baseURL, "/") + "/assets/" + url.PathEscape(assetID)
}

// AssetURL builds an asset URL against the client's base URL
func (c *Client) AssetURL(assetID string, t Transform) string {
	return AssetURL(c.baseURL, assetID, t)
}

// ResponsiveImages builds a responsive image set against the client's base URL
func (c *Client) ResponsiveImages(assetID string, widths []int) *ResponsiveImage {
	return ResponsiveImages(c.baseURL, assetID, widths)
}
