// Command cache-server runs a demonstration API with the response cache,
// invalidation and rate limit middleware wired the way the production
// backend composes them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuskit/apicache/internal/config"
	"github.com/campuskit/apicache/pkg/cache"
	"github.com/campuskit/apicache/pkg/logging"
	"github.com/campuskit/apicache/pkg/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Output: os.Stderr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := cache.Connect(ctx, cfg.StoreConfig(), logging.NewLogger("cache-store"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Redis configured but unreachable")
	}
	defer store.Close()

	svc := cache.NewService(store, cache.ServiceConfig{
		DefaultTTL: cfg.CacheTTL(),
	}, logging.NewLogger("cache"))

	limiter := ratelimit.New(store.Client(), ratelimit.Config{
		Window: cfg.RateLimitWindow(),
		Max:    cfg.RateLimitMax,
	}, logging.NewLogger("ratelimit"))

	cached := cache.Middleware(svc, cache.MiddlewareConfig{
		TTL:       cfg.CacheTTL(),
		KeyPrefix: cfg.CacheKeyPrefix,
	})
	invalidating := cache.Invalidate(svc, cache.InvalidateConfig{
		Patterns: []string{cache.KeyPattern(cfg.CacheKeyPrefix)},
	})

	students := newStudentStore()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.Middleware())
	api.Handle("/students", cached(http.HandlerFunc(students.list))).Methods("GET")
	api.Handle("/students/{id}", cached(http.HandlerFunc(students.get))).Methods("GET")
	api.Handle("/students", invalidating(http.HandlerFunc(students.create))).Methods("POST")

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().
		Str("addr", addr).
		Bool("cache_enabled", store.Available()).
		Msg("Starting cache server")

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// Student is a sample record served by the demo endpoints.
type Student struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// studentStore is the demo's in-memory stand-in for the primary
// database, which is out of scope for this layer.
type studentStore struct {
	mu     sync.RWMutex
	nextID int
	data   map[int]Student
}

func newStudentStore() *studentStore {
	return &studentStore{
		nextID: 3,
		data: map[int]Student{
			1: {ID: 1, Name: "Ada Byron", Class: "10A"},
			2: {ID: 2, Name: "Alan Turing", Class: "10B"},
		},
	}
}

func (s *studentStore) list(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]Student, 0, len(s.data))
	for _, st := range s.data {
		out = append(out, st)
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *studentStore) get(w http.ResponseWriter, r *http.Request) {
	var id int
	if _, err := fmt.Sscanf(mux.Vars(r)["id"], "%d", &id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	s.mu.RLock()
	st, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *studentStore) create(w http.ResponseWriter, r *http.Request) {
	var st Student
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	st.ID = s.nextID
	s.nextID++
	s.data[st.ID] = st
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
