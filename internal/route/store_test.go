package route

import (
	"net/url"
	"reflect"
	"testing"
)

func TestStore_LocationWritesOnlyWhenActive(t *testing.T) {
	var s Store
	s.Activate("/admin/cases")

	cases := s.Location("/admin/cases")
	users := s.Location("/admin/users")

	cases.Replace(url.Values{"page": {"2"}})
	users.Replace(url.Values{"page": {"9"}})

	if got := s.Query("/admin/cases").Get("page"); got != "2" {
		t.Fatalf("cases page = %q, want 2", got)
	}
	if got := s.Query("/admin/users"); len(got) != 0 {
		t.Fatalf("inactive route was written: %v", got)
	}
	if got := s.URL(); got != "/admin/cases?page=2" {
		t.Fatalf("URL = %q, want %q", got, "/admin/cases?page=2")
	}

	s.Activate("/admin/users")
	cases.Replace(url.Values{})
	if got := s.Query("/admin/cases").Get("page"); got != "2" {
		t.Fatalf("closed route overwrote its query: %q", got)
	}
	if got := s.URL(); got != "/admin/users" {
		t.Fatalf("URL = %q, want /admin/users", got)
	}
}

func TestStore_QueryReturnsCopy(t *testing.T) {
	var s Store
	s.Activate("/admin/cases")
	s.Location("/admin/cases").Replace(url.Values{"sort": {"title"}})

	q := s.Query("/admin/cases")
	q.Set("sort", "-title")
	if got := s.Query("/admin/cases").Get("sort"); got != "title" {
		t.Fatalf("Query should clone; stored sort = %q", got)
	}
}

func TestStore_OpenRoutesAndRestore(t *testing.T) {
	var s Store
	if err := s.Open("/admin/cases/?page=3&title=crown"); err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.Current() != "/admin/cases" {
		t.Fatalf("Current = %q, want /admin/cases", s.Current())
	}
	s.Activate("admin/users")
	s.Location("/admin/users").Replace(url.Values{"sort": {"-name"}})
	s.Activate("/admin/activities")

	routes := s.Routes()
	want := []string{"/admin/cases?page=3&title=crown", "/admin/users?sort=-name"}
	if !reflect.DeepEqual(routes, want) {
		t.Fatalf("Routes = %v, want %v", routes, want)
	}

	var restored Store
	restored.Restore(append(routes, "http://evil.example/x", ""))
	if got := restored.Query("/admin/users").Get("sort"); got != "-name" {
		t.Fatalf("restored users sort = %q, want -name", got)
	}
	if restored.Current() != "" {
		t.Fatalf("Restore changed the active route to %q", restored.Current())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		path    string
		query   string
		wantErr bool
	}{
		{raw: "/admin/cases", path: "/admin/cases"},
		{raw: " admin/cases?page=2 ", path: "/admin/cases", query: "page=2"},
		{raw: "/admin/users?sort=-name&name=ana", path: "/admin/users", query: "name=ana&sort=-name"},
		{raw: "", wantErr: true},
		{raw: "https://host/admin", wantErr: true},
		{raw: "/admin?bad=%zz", wantErr: true},
	}
	for _, tt := range tests {
		path, query, err := Parse(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q) returned nil error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.raw, err)
		}
		if path != tt.path || query.Encode() != tt.query {
			t.Fatalf("Parse(%q) = %q %q, want %q %q", tt.raw, path, query.Encode(), tt.path, tt.query)
		}
	}
}
