package directus

import "context"

// FallbackBlocking tells the renderer to build unknown paths on first request
const FallbackBlocking = "blocking"

// StaticPath is one route parameter set for a dynamic page
type StaticPath struct {
	Params map[string]string `json:"params"`
}

// StaticPaths is the list of pre-renderable routes of a collection
type StaticPaths struct {
	Paths    []StaticPath `json:"paths"`
	Fallback string       `json:"fallback"`
}

// BlogPosts lists published posts, newest first
func (c *Client) BlogPosts(ctx context.Context, q Query) ([]Item, error) {
	return c.FetchCollection(ctx, "blog_posts", q)
}

// BlogPost returns the published post with the given slug, or nil
func (c *Client) BlogPost(ctx context.Context, slug string) (Item, error) {
	return c.FindOne(ctx, "blog_posts", Eq("slug", slug))
}

// BlogCategories lists blog categories by name
func (c *Client) BlogCategories(ctx context.Context) ([]Item, error) {
	return c.FetchCollection(ctx, "blog_categories", Query{})
}

// Pages lists published pages in their manual sort order
func (c *Client) Pages(ctx context.Context, q Query) ([]Item, error) {
	return c.FetchCollection(ctx, "pages", q)
}

// Page returns the published page with the given slug, or nil
func (c *Client) Page(ctx context.Context, slug string) (Item, error) {
	return c.FindOne(ctx, "pages", Eq("slug", slug))
}

// SiteSettings returns the globals entry keyed "site_settings"
func (c *Client) SiteSettings(ctx context.Context) (Item, error) {
	return c.FindOne(ctx, "globals", Eq("key", "site_settings"))
}

// Navigation returns the globals entry keyed "navigation"
func (c *Client) Navigation(ctx context.Context) (Item, error) {
	return c.FindOne(ctx, "globals", Eq("key", "navigation"))
}
