package devserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/five82/odonto/internal/api"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func get[T any](t *testing.T, h http.Handler, target string) (api.ListResult[T], *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var out api.ListResult[T]
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s: %v", target, err)
		}
	}
	return out, rec
}

func TestListCases_PagingSortingAndTotals(t *testing.T) {
	s := New(Options{})
	h := s.Handler()

	first, rec := get[api.Case](t, h, "/api/cases?page=1&limit=10&sort=-createdAt")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if first.Total != 37 || len(first.Items) != 10 {
		t.Fatalf("page 1 = %d items total %d, want 10 of 37", len(first.Items), first.Total)
	}
	if rec.Header().Get("X-Total-Count") != "37" {
		t.Fatalf("X-Total-Count = %q, want 37", rec.Header().Get("X-Total-Count"))
	}
	if first.Items[0].ID != 37 {
		t.Fatalf("newest case id = %d, want 37", first.Items[0].ID)
	}
	for i := 1; i < len(first.Items); i++ {
		if api.ParseTime(first.Items[i].CreatedAt).After(api.ParseTime(first.Items[i-1].CreatedAt)) {
			t.Fatalf("items not sorted by createdAt desc at %d", i)
		}
	}
	if first.Items[0].Teacher != nil {
		t.Fatalf("teacher embedded without populate")
	}

	last, _ := get[api.Case](t, h, "/api/cases?page=4&limit=10&sort=-createdAt&populate=teacher")
	if len(last.Items) != 7 || last.Total != 37 {
		t.Fatalf("last page = %d items total %d, want 7 of 37", len(last.Items), last.Total)
	}
	if last.Items[0].Teacher == nil || last.Items[0].Teacher.Name == "" {
		t.Fatalf("teacher not embedded with populate=teacher: %+v", last.Items[0].Teacher)
	}

	beyond, _ := get[api.Case](t, h, "/api/cases?page=9&limit=10")
	if len(beyond.Items) != 0 || beyond.Total != 37 {
		t.Fatalf("beyond last page = %d items total %d, want 0 of 37", len(beyond.Items), beyond.Total)
	}
}

func TestListUsers_FiltersAndMultiKeySort(t *testing.T) {
	h := New(Options{}).Handler()

	got, _ := get[api.User](t, h, "/api/users?name=LIMA&limit=50")
	if got.Total != 1 || got.Items[0].Name != "Ana Lima" {
		t.Fatalf("filter name=LIMA = %+v, want Ana Lima", got)
	}

	got, _ = get[api.User](t, h, "/api/users?sort=-manager,name&limit=50")
	if !got.Items[0].Manager || got.Items[len(got.Items)-1].Manager {
		t.Fatalf("managers not sorted first: %+v", got.Items)
	}
	if got.Items[0].Name != "Ana Lima" || got.Items[3].Name != "Marina Pires" {
		t.Fatalf("managers not sorted by name: %q ... %q", got.Items[0].Name, got.Items[3].Name)
	}

	_, rec := get[api.User](t, h, "/api/users?page=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad page", rec.Code)
	}

	clamped, _ := get[api.User](t, h, "/api/users?page=0&limit=0")
	if len(clamped.Items) != defaultLimit {
		t.Fatalf("clamped paging = %d items, want %d", len(clamped.Items), defaultLimit)
	}
}

func TestDeleteCase(t *testing.T) {
	s := New(Options{})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cases/1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if s.Counts()[api.ResourceCases] != 36 {
		t.Fatalf("cases = %d, want 36", s.Counts()[api.ResourceCases])
	}
	acts, _ := get[api.Activity](t, h, "/api/activities?limit=200")
	for _, a := range acts.Items {
		if a.CaseID == 1 {
			t.Fatalf("activity %d still references deleted case", a.ID)
		}
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cases/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/1", nil))
	if rec.Code != http.StatusMethodNotAllowed && rec.Code != http.StatusNotFound {
		t.Fatalf("delete user status = %d, want 404 or 405", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := New(Options{Empty: true}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("health status=%d request id=%q", rec.Code, rec.Header().Get("X-Request-ID"))
	}
}

func TestLatencyHonoursCancellation(t *testing.T) {
	h := New(Options{Latency: time.Hour}).Handler()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	start := time.Now()
	if _, err := client.Get(server.URL + "/api/cases"); err == nil {
		t.Fatalf("request returned nil error, want timeout")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("request took %v, latency not cancelled", time.Since(start))
	}
}
