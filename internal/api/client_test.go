package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/admin/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "/admin/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL without host returned nil error")
	}
}

func TestList_EnvelopeAndHeaders(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotAuth, gotUA, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ListResult[Case]{
			Items: []Case{{ID: 7, Title: "Crown prep", Teacher: &User{Name: "Ana"}}},
			Total: 31,
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api", ClientOptions{Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	query := url.Values{"page": {"2"}, "limit": {"10"}, "sort": {"-createdAt"}}
	got, err := List[Case](ctx, c, ResourceCases, query)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got.Total != 31 || len(got.Items) != 1 || got.Items[0].Field("teacher") != "Ana" {
		t.Fatalf("List = %+v, want 1 item total 31 teacher Ana", got)
	}
	if gotPath != "/api/cases" {
		t.Fatalf("path = %q, want /api/cases", gotPath)
	}
	if gotQuery != "limit=10&page=2&sort=-createdAt" {
		t.Fatalf("query = %q, want limit=10&page=2&sort=-createdAt", gotQuery)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if !strings.HasPrefix(gotUA, "odonto-console/") {
		t.Fatalf("User-Agent = %q, want odonto-console/*", gotUA)
	}
	if len(gotRequestID) != 36 {
		t.Fatalf("X-Request-ID = %q, want a uuid", gotRequestID)
	}
}

func TestList_BareArrayWithTotalHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			w.Header().Set("X-Total-Count", "42")
			_, _ = w.Write([]byte(` [{"id":1,"name":"Ana"},{"id":2,"name":"Bruno"}]`))
		case "2":
			_, _ = w.Write([]byte(`[{"id":3,"name":"Caio"}]`))
		default:
			w.Header().Set("X-Total-Count", "lots")
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	got, err := List[User](context.Background(), c, ResourceUsers, url.Values{"page": {"1"}})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got.Total != 42 || len(got.Items) != 2 || got.Items[1].Name != "Bruno" {
		t.Fatalf("List = %+v, want 2 items total 42", got)
	}

	got, err = List[User](context.Background(), c, ResourceUsers, url.Values{"page": {"2"}})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if got.Total != 1 {
		t.Fatalf("Total without header = %d, want 1", got.Total)
	}

	if _, err := List[User](context.Background(), c, ResourceUsers, url.Values{"page": {"3"}}); err == nil {
		t.Fatalf("List with bad X-Total-Count returned nil error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cases":
			_, _ = w.Write([]byte("{not-json"))
		case "/users":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = List[Case](context.Background(), c, ResourceCases, nil)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("List error = %v, want decode response error", err)
	}

	_, err = List[User](context.Background(), c, ResourceUsers, nil)
	var se StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("List error = %v, want StatusError 500", err)
	}

	err = c.Delete(context.Background(), ResourceActivities, 5)
	if !IsNotFound(err) {
		t.Fatalf("Delete error = %v, want 404", err)
	}
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/api/", ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Delete(context.Background(), ResourceCases, 12); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/cases/12" {
		t.Fatalf("request = %s %s, want DELETE /api/cases/12", gotMethod, gotPath)
	}
	if err := c.Delete(context.Background(), ResourceCases, 0); err == nil {
		t.Fatalf("Delete with zero id returned nil error")
	}
}

func TestList_ContextCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL, ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err = List[Case](ctx, c, ResourceCases, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("List error = %v, want context.Canceled", err)
	}
}
