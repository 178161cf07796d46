package grid

import (
	"net/url"
	"reflect"
	"testing"
)

func casesDefinition() Definition {
	return MustDefine(Definition{
		Columns: []Column{
			{ID: "createdAt", Header: "Created", Sortable: true, Binding: Field("createdAt")},
			{ID: "title", Header: "Title", Sortable: true, Binding: Field("title")},
			{ID: "shared", Header: "Shared", Sortable: true, Binding: Renderer("flag")},
			{ID: "actions", Header: "", Binding: Renderer("actions")},
		},
		DefaultSort: []SortKey{{Column: "createdAt", Dir: Desc}},
		PageSize:    10,
		Filters:     []Filter{{Key: "title", Label: "Title"}, {Key: "active", Label: "Active"}},
	})
}

func TestEncodeURL_DefaultStateIsEmpty(t *testing.T) {
	d := casesDefinition()
	if got := EncodeURL(d.DefaultState(), d); len(got) != 0 {
		t.Fatalf("EncodeURL(default) = %q, want empty", got.Encode())
	}
}

func TestEncodeURL_NonDefaultValues(t *testing.T) {
	d := casesDefinition()
	s := State{
		Page:     3,
		PageSize: 25,
		Sort:     []SortKey{{Column: "title", Dir: Asc}, {Column: "createdAt", Dir: Desc}},
		Filters:  map[string]string{"title": "implant", "active": ""},
	}
	got := EncodeURL(s, d)
	want := url.Values{
		"page":  {"3"},
		"limit": {"25"},
		"sort":  {"title,-createdAt"},
		"title": {"implant"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EncodeURL = %v, want %v", got, want)
	}
}

func TestURLRoundTrip(t *testing.T) {
	d := casesDefinition()
	states := []State{
		d.DefaultState(),
		{Page: 2, PageSize: 10, Sort: []SortKey{{Column: "createdAt", Dir: Desc}}},
		{Page: 1, PageSize: 50, Sort: []SortKey{{Column: "shared", Dir: Asc}}},
		{Page: 7, PageSize: 200, Sort: []SortKey{{Column: "title", Dir: Desc}, {Column: "createdAt", Dir: Asc}}},
		{Page: 1, PageSize: 10, Sort: []SortKey{{Column: "createdAt", Dir: Desc}}, Filters: map[string]string{"title": "a b&c", "active": "true"}},
	}
	for _, s := range states {
		encoded := EncodeURL(s, d)
		// Survive a trip through a real URL string too.
		parsed, err := url.ParseQuery(encoded.Encode())
		if err != nil {
			t.Fatalf("ParseQuery(%q) returned error: %v", encoded.Encode(), err)
		}
		if got := DecodeURL(parsed, d); !got.Equal(s) {
			t.Fatalf("DecodeURL(EncodeURL(%+v)) = %+v", s, got)
		}
	}
}

func TestDecodeURL_FallsBackToDefaults(t *testing.T) {
	d := casesDefinition()
	tests := []struct {
		name  string
		query string
		want  State
	}{
		{
			name:  "empty",
			query: "",
			want:  d.DefaultState(),
		},
		{
			name:  "malformed page and limit",
			query: "page=abc&limit=-4",
			want:  d.DefaultState(),
		},
		{
			name:  "zero page",
			query: "page=0",
			want:  d.DefaultState(),
		},
		{
			name:  "limit capped",
			query: "limit=5000",
			want:  State{Page: 1, PageSize: MaxPageSize, Sort: []SortKey{{Column: "createdAt", Dir: Desc}}},
		},
		{
			name:  "unknown and unsortable sort columns dropped",
			query: "sort=bogus,-actions,-title,title",
			want:  State{Page: 1, PageSize: 10, Sort: []SortKey{{Column: "title", Dir: Desc}}},
		},
		{
			name:  "nothing valid in sort",
			query: "sort=nope,,-",
			want:  d.DefaultState(),
		},
		{
			name:  "unknown filters dropped",
			query: "owner=42&title=%20crown%20&active=",
			want:  State{Page: 1, PageSize: 10, Sort: []SortKey{{Column: "createdAt", Dir: Desc}}, Filters: map[string]string{"title": "crown"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery returned error: %v", err)
			}
			if got := DecodeURL(values, d); !got.Equal(tt.want) {
				t.Fatalf("DecodeURL(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestQueryValues_AlwaysCarriesPaging(t *testing.T) {
	d := casesDefinition()
	got := QueryValues(d.DefaultState(), d, DefaultConvention).Encode()
	if want := "limit=10&page=1&sort=-createdAt"; got != want {
		t.Fatalf("QueryValues = %q, want %q", got, want)
	}

	conv := Convention{Page: "p", Size: "per_page", Sort: "order"}
	s := State{Page: 2, PageSize: 5, Sort: []SortKey{{Column: "title", Dir: Asc}}, Filters: map[string]string{"title": "x"}}
	got = QueryValues(s, d, conv).Encode()
	if want := "order=title&p=2&per_page=5&title=x"; got != want {
		t.Fatalf("QueryValues(custom) = %q, want %q", got, want)
	}
}

func TestParseSortAndFormatSort(t *testing.T) {
	keys := ParseSort(" -createdAt , title,,- ")
	want := []SortKey{{Column: "createdAt", Dir: Desc}, {Column: "title", Dir: Asc}}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("ParseSort = %#v, want %#v", keys, want)
	}
	if got := FormatSort(keys); got != "-createdAt,title" {
		t.Fatalf("FormatSort = %q, want %q", got, "-createdAt,title")
	}
	if got := ParseSort(""); got != nil {
		t.Fatalf("ParseSort(empty) = %#v, want nil", got)
	}
}
