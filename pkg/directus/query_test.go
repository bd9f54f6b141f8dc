package directus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		query      Query
		wantSort   []string
		wantLimit  int
		wantFilter Filter
	}{
		{
			name:       "blog posts get sort and status",
			collection: "blog_posts",
			wantSort:   []string{"-date_created"},
			wantLimit:  100,
			wantFilter: Eq("status", StatusPublished),
		},
		{
			name:       "pages sort manually",
			collection: "pages",
			wantSort:   []string{"sort"},
			wantLimit:  100,
			wantFilter: Eq("status", StatusPublished),
		},
		{
			name:       "categories are not publishable",
			collection: "blog_categories",
			wantSort:   []string{"name"},
			wantLimit:  100,
		},
		{
			name:       "unknown collection only gets the limit",
			collection: "team_members",
			wantLimit:  100,
		},
		{
			name:       "caller status filter wins",
			collection: "products",
			query:      Query{Filter: Eq("status", "archived"), Limit: -1},
			wantSort:   []string{"-date_created"},
			wantLimit:  -1,
			wantFilter: Eq("status", "archived"),
		},
		{
			name:       "caller filter is merged with status",
			collection: "pages",
			query:      Query{Filter: Eq("slug", "about"), Sort: []string{"title"}},
			wantSort:   []string{"title"},
			wantLimit:  100,
			wantFilter: Eq("slug", "about").With(Eq("status", StatusPublished)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDefaults(tt.collection, tt.query, 100)
			assert.Equal(t, tt.wantSort, got.Sort)
			assert.Equal(t, tt.wantLimit, got.Limit)
			if tt.wantFilter == nil {
				assert.Empty(t, got.Filter)
			} else {
				assert.Equal(t, tt.wantFilter, got.Filter)
			}
		})
	}
}

func TestApplyDefaults_DoesNotMutateCallerFilter(t *testing.T) {
	callerFilter := Eq("slug", "about")
	ApplyDefaults("pages", Query{Filter: callerFilter}, 100)
	assert.Len(t, callerFilter, 1)
}

func TestQueryValues(t *testing.T) {
	v, err := Query{
		Fields: []string{"id", "title", "author.name"},
		Filter: Eq("slug", "x"),
		Sort:   []string{"-date_created", "title"},
		Limit:  5,
		Offset: 10,
		Page:   2,
		Search: "go",
		Meta:   "total_count",
	}.Values()

	require.NoError(t, err)
	assert.Equal(t, "id,title,author.name", v.Get("fields"))
	assert.JSONEq(t, `{"slug":{"_eq":"x"}}`, v.Get("filter"))
	assert.Equal(t, "-date_created,title", v.Get("sort"))
	assert.Equal(t, "5", v.Get("limit"))
	assert.Equal(t, "10", v.Get("offset"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "go", v.Get("search"))
	assert.Equal(t, "total_count", v.Get("meta"))
}

func TestQueryValues_Empty(t *testing.T) {
	v, err := Query{}.Values()
	require.NoError(t, err)
	assert.Empty(t, v.Encode())
}
