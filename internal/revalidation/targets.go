// Package revalidation holds the static map from CMS collections to the
// site paths and cache tags that must be refreshed when they change.
package revalidation

import "strings"

const (
	slugPlaceholder = "{slug}"
	keyPlaceholder  = "{key}"
)

// Target lists the path and tag templates for one collection. Templates may
// contain {slug} or {key}; such entries are dropped when the event has no key.
type Target struct {
	Paths []string
	Tags  []string
}

// Resolved is a Target expanded for a concrete webhook event
type Resolved struct {
	Paths []string
	Tags  []string
}

var targets = map[string]Target{
	"blog_posts": {
		Paths: []string{"/blog", "/blog/page/[page]", "/blog/{slug}"},
		Tags:  []string{"blog", "blog-posts", "blog-{key}"},
	},
	"pages": {
		Paths: []string{"/", "/{slug}"},
		Tags:  []string{"pages", "page-{key}"},
	},
	"globals": {
		// nav and settings render on every page, the homepage is the hot one
		Paths: []string{"/"},
		Tags:  []string{"globals", "navigation", "settings"},
	},
	"products": {
		Paths: []string{"/products", "/products/[category]", "/products/{slug}"},
		Tags:  []string{"products", "product-{key}"},
	},
	"categories": {
		Paths: []string{"/products", "/blog"},
		Tags:  []string{"categories", "products", "blog"},
	},
}

var rebuildCollections = map[string]bool{
	"blog_posts": true,
	"pages":      true,
	"globals":    true,
	"navigation": true,
	"products":   true,
	"categories": true,
}

var rebuildActions = map[string]bool{
	"create": true,
	"update": true,
	"delete": true,
}

// Lookup returns the raw target templates for collection
func Lookup(collection string) (Target, bool) {
	t, ok := targets[collection]
	return t, ok
}

// Resolve expands the target of collection for an event. The slug is taken
// from data["slug"] when it is a non-empty string, otherwise from key.
func Resolve(collection, key string, data map[string]any) (Resolved, bool) {
	t, ok := targets[collection]
	if !ok {
		return Resolved{}, false
	}

	slug := key
	if s, ok := data["slug"].(string); ok && s != "" {
		slug = s
	}

	return Resolved{
		Paths: expand(t.Paths, key, slug),
		Tags:  expand(t.Tags, key, slug),
	}, true
}

// BaseTags returns the tags of collection that do not depend on an item key
func BaseTags(collection string) []string {
	t, ok := targets[collection]
	if !ok {
		return nil
	}
	return expand(t.Tags, "", "")
}

// ShouldRebuild reports whether a change to collection with action warrants a full site build
func ShouldRebuild(collection, action string) (bool, string) {
	if !rebuildCollections[collection] {
		return false, "Webhook received but no rebuild needed for: " + collection
	}
	if !rebuildActions[action] {
		return false, "Webhook received but no rebuild needed for action: " + action
	}
	return true, ""
}

func expand(templates []string, key, slug string) []string {
	out := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		if strings.Contains(tmpl, slugPlaceholder) || strings.Contains(tmpl, keyPlaceholder) {
			if key == "" {
				continue
			}
			tmpl = strings.ReplaceAll(tmpl, slugPlaceholder, slug)
			tmpl = strings.ReplaceAll(tmpl, keyPlaceholder, key)
		}
		out = append(out, tmpl)
	}
	return out
}
