package directus

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// StatusPublished is the publication status the public site reads
const StatusPublished = "published"

// Filter is a Directus filter object, e.g. {"slug": {"_eq": "hello"}}
type Filter map[string]any

// Eq builds a single-field equality filter
func Eq(field string, value any) Filter {
	return Filter{field: map[string]any{"_eq": value}}
}

// With returns a copy of f with other's fields merged over it
func (f Filter) With(other Filter) Filter {
	out := make(Filter, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Has reports whether the filter constrains field at the top level
func (f Filter) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Query holds the item query parameters understood by /items endpoints.
// Limit 0 means "use the client default", -1 means "all items".
type Query struct {
	Fields []string
	Filter Filter
	Sort   []string
	Limit  int
	Offset int
	Page   int
	Search string
	Meta   string
	Deep   map[string]any
}

// Values encodes q as URL query parameters
func (q Query) Values() (url.Values, error) {
	v := url.Values{}
	if len(q.Fields) > 0 {
		v.Set("fields", strings.Join(q.Fields, ","))
	}
	if len(q.Filter) > 0 {
		raw, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		v.Set("filter", string(raw))
	}
	if len(q.Sort) > 0 {
		v.Set("sort", strings.Join(q.Sort, ","))
	}
	if q.Limit != 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Meta != "" {
		v.Set("meta", q.Meta)
	}
	if len(q.Deep) > 0 {
		raw, err := json.Marshal(q.Deep)
		if err != nil {
			return nil, fmt.Errorf("failed to encode deep: %w", err)
		}
		v.Set("deep", string(raw))
	}
	return v, nil
}

// CollectionDefaults are the query defaults a collection is read with
type CollectionDefaults struct {
	Sort        []string
	Publishable bool // Has a status field; reads are limited to published items
}

var collectionDefaults = map[string]CollectionDefaults{
	"blog_posts":      {Sort: []string{"-date_created"}, Publishable: true},
	"pages":           {Sort: []string{"sort"}, Publishable: true},
	"products":        {Sort: []string{"-date_created"}, Publishable: true},
	"blog_categories": {Sort: []string{"name"}},
	"categories":      {Sort: []string{"name"}},
	"globals":         {},
}

// DefaultsFor returns the defaults registered for collection
func DefaultsFor(collection string) (CollectionDefaults, bool) {
	d, ok := collectionDefaults[collection]
	return d, ok
}

// ApplyDefaults merges the caller's query over the collection defaults.
// Caller-supplied sort, limit and a top-level status filter always win.
func ApplyDefaults(collection string, q Query, defaultLimit int) Query {
	out := q
	if out.Limit == 0 {
		out.Limit = defaultLimit
	}

	d, ok := collectionDefaults[collection]
	if !ok {
		return out
	}

	if len(out.Sort) == 0 && len(d.Sort) > 0 {
		out.Sort = append([]string(nil), d.Sort...)
	}
	if d.Publishable && !out.Filter.Has("status") {
		out.Filter = out.Filter.With(Eq("status", StatusPublished))
	}
	return out
}
