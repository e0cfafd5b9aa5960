// Package testutil provides testing utilities for the cache layer.
package testutil

import (
	"net/http"
	"sync"
)

// CountingHandler wraps an http.Handler and counts how many times it
// runs, so tests can prove that a cache hit bypassed the handler.
type CountingHandler struct {
	mu      sync.Mutex
	calls   int
	handler http.Handler
}

// NewCountingHandler wraps handler with a call counter.
func NewCountingHandler(handler http.Handler) *CountingHandler {
	return &CountingHandler{handler: handler}
}

// JSONHandler returns a counting handler that always responds with the
// given status and JSON body.
func JSONHandler(status int, body string) *CountingHandler {
	return NewCountingHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func (h *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	h.handler.ServeHTTP(w, r)
}

// Calls returns how many times the handler has run.
func (h *CountingHandler) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// Reset clears the call counter.
func (h *CountingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = 0
}
