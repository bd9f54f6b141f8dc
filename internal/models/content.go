package models

// ItemsQuery is the query string accepted by the item list endpoint.
// Filter and deep are JSON objects in Directus filter syntax.
type ItemsQuery struct {
	Fields string `form:"fields"`
	Sort   string `form:"sort"`
	Limit  int    `form:"limit" binding:"omitempty,min=-1"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Search string `form:"search" binding:"omitempty,max=200"`
	Filter string `form:"filter"`
	Deep   string `form:"deep"`
	Meta   string `form:"meta" binding:"omitempty,oneof=total_count filter_count *"`
}

// ItemQuery is the query string accepted by the single item endpoint
type ItemQuery struct {
	Fields string `form:"fields"`
	Deep   string `form:"deep"`
}

// AssetQuery selects an asset transformation
type AssetQuery struct {
	Width   int    `form:"width" binding:"omitempty,min=1,max=8192"`
	Height  int    `form:"height" binding:"omitempty,min=1,max=8192"`
	Quality int    `form:"quality" binding:"omitempty,min=1,max=100"`
	Format  string `form:"format" binding:"omitempty,oneof=jpg jpeg png webp avif tiff auto"`
	Fit     string `form:"fit" binding:"omitempty,oneof=cover contain inside outside"`
	Widths  string `form:"widths"`
	Alt     string `form:"alt" binding:"omitempty,max=500"`
}

// ItemsResponse wraps a list read
type ItemsResponse struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

// ItemResponse wraps a single item read
type ItemResponse struct {
	Data any `json:"data"`
}

// AssetURLResponse carries a single asset URL
type AssetURLResponse struct {
	URL string `json:"url"`
}
