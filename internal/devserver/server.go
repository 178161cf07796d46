package devserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/five82/odonto/internal/api"
)

// Options tune the in-memory API.
type Options struct {
	// Latency delays every response, to make loading states visible.
	Latency time.Duration
	// Empty starts without seed data.
	Empty bool
}

// Server is an in-memory stand-in for the admin REST API.
type Server struct {
	mu         sync.RWMutex
	cases      []api.Case
	users      []api.User
	activities []api.Activity

	latency time.Duration
	router  *mux.Router
}

// New builds a server, seeded unless opts.Empty is set.
func New(opts Options) *Server {
	s := &Server{latency: opts.Latency}
	if !opts.Empty {
		s.users, s.cases, s.activities = seed()
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving /api.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Counts reports how many records each resource holds.
func (s *Server) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		api.ResourceCases:      len(s.cases),
		api.ResourceUsers:      len(s.users),
		api.ResourceActivities: len(s.activities),
	}
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, requestLogger, s.delay)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/cases", s.listCases).Methods("GET")
	a.HandleFunc("/users", s.listUsers).Methods("GET")
	a.HandleFunc("/activities", s.listActivities).Methods("GET")
	a.HandleFunc("/cases/{id:[0-9]+}", s.deleteCase).Methods("DELETE")
	a.HandleFunc("/activities/{id:[0-9]+}", s.deleteActivity).Methods("DELETE")
	return r
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	items := make([]api.Case, len(s.cases))
	copy(items, s.cases)
	teachers := lo.KeyBy(s.users, func(u api.User) int64 { return u.ID })
	s.mu.RUnlock()

	withTeacher := q.populates("teacher")
	items = lo.Map(items, func(c api.Case, _ int) api.Case {
		if withTeacher && c.Teacher != nil {
			if t, ok := teachers[c.Teacher.ID]; ok {
				c.Teacher = &t
			}
		} else {
			c.Teacher = nil
		}
		return c
	})
	writeList(w, q, items)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	items := make([]api.User, len(s.users))
	copy(items, s.users)
	s.mu.RUnlock()
	writeList(w, q, items)
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	items := make([]api.Activity, len(s.activities))
	copy(items, s.activities)
	s.mu.RUnlock()
	writeList(w, q, items)
}

func (s *Server) deleteCase(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	s.mu.Lock()
	var ok bool
	s.cases, ok = remove(s.cases, id)
	if ok {
		s.activities = lo.Filter(s.activities, func(a api.Activity, _ int) bool { return a.CaseID != id })
	}
	s.mu.Unlock()
	writeDeleted(w, ok)
}

func (s *Server) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	s.mu.Lock()
	var ok bool
	s.activities, ok = remove(s.activities, id)
	s.mu.Unlock()
	writeDeleted(w, ok)
}

func remove[T api.Record](items []T, id int64) ([]T, bool) {
	_, idx, ok := lo.FindIndexOf(items, func(item T) bool { return item.RecordID() == id })
	if !ok {
		return items, false
	}
	return append(items[:idx:idx], items[idx+1:]...), true
}

func writeDeleted(w http.ResponseWriter, ok bool) {
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[HTTP] msg=\"encode response\" err=%v", err)
	}
}

// requestID echoes X-Request-ID, minting one when the client sent none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			r.Header.Set("X-Request-ID", rid)
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger prints one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[HTTP] request_id=%s method=%s path=%s query=%q status=%d latency_ms=%.3f",
			r.Header.Get("X-Request-ID"),
			r.Method,
			r.URL.Path,
			r.URL.RawQuery,
			rec.status,
			float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 {
			if err := sleep(r.Context(), s.latency); err != nil {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
