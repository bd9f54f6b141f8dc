package revalidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_BlogPostUpdate(t *testing.T) {
	got, ok := Resolve("blog_posts", "my-post", nil)

	assert.True(t, ok)
	assert.Equal(t, []string{"/blog", "/blog/page/[page]", "/blog/my-post"}, got.Paths)
	assert.Equal(t, []string{"blog", "blog-posts", "blog-my-post"}, got.Tags)
}

func TestResolve_SlugFromDataOverridesKeyInPaths(t *testing.T) {
	got, ok := Resolve("products", "17", map[string]any{"slug": "red-shoes"})

	assert.True(t, ok)
	assert.Equal(t, []string{"/products", "/products/[category]", "/products/red-shoes"}, got.Paths)
	assert.Equal(t, []string{"products", "product-17"}, got.Tags, "tags keep the key")
}

func TestResolve_NonStringSlugFallsBackToKey(t *testing.T) {
	got, _ := Resolve("pages", "about", map[string]any{"slug": 42})
	assert.Equal(t, []string{"/", "/about"}, got.Paths)
}

func TestResolve_WithoutKeyDropsItemTargets(t *testing.T) {
	got, ok := Resolve("pages", "", map[string]any{"slug": "ignored"})

	assert.True(t, ok)
	assert.Equal(t, []string{"/"}, got.Paths)
	assert.Equal(t, []string{"pages"}, got.Tags)
}

func TestResolve_StaticCollections(t *testing.T) {
	globals, ok := Resolve("globals", "site_settings", nil)
	assert.True(t, ok)
	assert.Equal(t, []string{"/"}, globals.Paths)
	assert.Equal(t, []string{"globals", "navigation", "settings"}, globals.Tags)

	categories, ok := Resolve("categories", "5", nil)
	assert.True(t, ok)
	assert.Equal(t, []string{"/products", "/blog"}, categories.Paths)
	assert.Equal(t, []string{"categories", "products", "blog"}, categories.Tags)
}

func TestResolve_Unmapped(t *testing.T) {
	_, ok := Resolve("unmapped_thing", "x", nil)
	assert.False(t, ok)

	_, ok = Lookup("directus_activity")
	assert.False(t, ok)
}

func TestBaseTags(t *testing.T) {
	assert.Equal(t, []string{"blog", "blog-posts"}, BaseTags("blog_posts"))
	assert.Nil(t, BaseTags("unmapped_thing"))
}

func TestShouldRebuild(t *testing.T) {
	tests := []struct {
		collection string
		action     string
		want       bool
		reason     string
	}{
		{"blog_posts", "update", true, ""},
		{"navigation", "create", true, ""},
		{"categories", "delete", true, ""},
		{"directus_files", "update", false, "Webhook received but no rebuild needed for: directus_files"},
		{"pages", "sort", false, "Webhook received but no rebuild needed for action: sort"},
	}

	for _, tt := range tests {
		t.Run(tt.collection+"/"+tt.action, func(t *testing.T) {
			got, reason := ShouldRebuild(tt.collection, tt.action)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
