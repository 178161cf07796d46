package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/five82/odonto/internal/grid"
)

func TestFeed_FetchEncodesStateAndRelations(t *testing.T) {
	t.Parallel()

	def := grid.MustDefine(grid.Definition{
		Columns: []grid.Column{
			{ID: "title", Sortable: true, Binding: grid.Field("title")},
			{ID: "createdAt", Sortable: true, Binding: grid.Field("createdAt")},
		},
		DefaultSort: []grid.SortKey{{Column: "title", Dir: grid.Asc}, {Column: "createdAt", Dir: grid.Desc}},
		PageSize:    10,
		Filters:     []grid.Filter{{Key: "title"}},
	})

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(ListResult[Case]{Items: []Case{{ID: 1}, {ID: 2}}, Total: 12})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	feed := NewFeed[Case](c, ResourceCases, def, WithRelations("teacher"))

	state := def.DefaultState()
	state.Page = 2
	state.Filters = map[string]string{"title": "crown"}
	page, err := feed.Fetch(context.Background(), state)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if want := "limit=10&page=2&populate=teacher&sort=title%2C-createdAt&title=crown"; gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
	if page.Total != 12 || len(page.Items) != 2 || !page.State.Equal(state) {
		t.Fatalf("page = %+v, want 2 items total 12 for requested state", page)
	}

	custom := NewFeed[Case](c, ResourceCases, def, WithConvention(grid.Convention{Page: "p", Size: "per_page", Sort: "order"}))
	if _, err := custom.Fetch(context.Background(), def.DefaultState()); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if want := "order=title%2C-createdAt&p=1&per_page=10"; gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
}
