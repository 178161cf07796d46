package route

import (
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/five82/odonto/internal/grid"
)

// Store is the process-wide URL: the active route path plus the last query
// seen for every path. Only the active route's Location may write.
type Store struct {
	mu      sync.RWMutex
	current string
	queries map[string]url.Values
}

// Activate makes path the current route.
func (s *Store) Activate(path string) {
	path = cleanPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = path
}

// Current returns the active route path.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Query returns a copy of the stored query for path.
func (s *Store) Query(path string) url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.queries[cleanPath(path)])
}

// URL renders the active route, e.g. /admin/cases?page=2&sort=-title.
func (s *Store) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return render(s.current, s.queries[s.current])
}

// Open parses raw, stores its query and activates its path.
func (s *Store) Open(raw string) error {
	path, query, err := Parse(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(path, query)
	s.current = path
	return nil
}

// Location returns the grid.Location scoped to path. Writes are dropped once
// another route has become active, so a screen being torn down can never
// overwrite its successor's URL.
func (s *Store) Location(path string) grid.Location {
	return &location{store: s, path: cleanPath(path)}
}

// Routes returns every stored route rendered as path?query, sorted by path.
// Routes with an empty query are skipped.
func (s *Store) Routes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.queries))
	for path, query := range s.queries {
		if len(query) == 0 {
			continue
		}
		out = append(out, render(path, query))
	}
	sort.Strings(out)
	return out
}

// Restore loads routes previously returned by Routes. Unparseable entries are
// skipped. The active route is not changed.
func (s *Store) Restore(routes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, raw := range routes {
		path, query, err := Parse(raw)
		if err != nil {
			log.Printf("[ROUTE] msg=\"skip saved route\" route=%q err=%v", raw, err)
			continue
		}
		s.set(path, query)
	}
}

// Parse splits a route like /admin/cases?page=2 into path and query.
func Parse(raw string) (string, url.Values, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil, fmt.Errorf("route is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", nil, fmt.Errorf("parse route %q: %w", raw, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return "", nil, fmt.Errorf("route %q must be a path", raw)
	}
	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("parse route query %q: %w", raw, err)
	}
	return cleanPath(u.Path), query, nil
}

func (s *Store) set(path string, query url.Values) {
	if s.queries == nil {
		s.queries = make(map[string]url.Values)
	}
	s.queries[path] = cloneValues(query)
}

type location struct {
	store *Store
	path  string
}

func (l *location) Query() url.Values {
	return l.store.Query(l.path)
}

func (l *location) Replace(query url.Values) {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != l.path {
		log.Printf("[ROUTE] msg=\"write from inactive route dropped\" path=%s active=%s", l.path, s.current)
		return
	}
	s.set(l.path, query)
}

func render(path string, query url.Values) string {
	if encoded := query.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

func cleanPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func cloneValues(values url.Values) url.Values {
	if len(values) == 0 {
		return url.Values{}
	}
	dup := make(url.Values, len(values))
	for key, vals := range values {
		dup[key] = append([]string(nil), vals...)
	}
	return dup
}
