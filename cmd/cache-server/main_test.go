package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/campuskit/apicache/pkg/cache"
)

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", w.Body.String())
	}
}

// newTestRouter wires the demo routes with a disabled cache so the
// handler behavior is testable without Redis.
func newTestRouter() (*mux.Router, *studentStore) {
	svc := cache.NewService(cache.NewStore(nil, zerolog.Nop()), cache.ServiceConfig{}, zerolog.Nop())
	cached := cache.Middleware(svc, cache.MiddlewareConfig{})
	invalidating := cache.Invalidate(svc, cache.InvalidateConfig{
		Patterns: []string{cache.KeyPattern("api")},
	})

	students := newStudentStore()
	router := mux.NewRouter()
	router.Handle("/api/students", cached(http.HandlerFunc(students.list))).Methods("GET")
	router.Handle("/api/students/{id}", cached(http.HandlerFunc(students.get))).Methods("GET")
	router.Handle("/api/students", invalidating(http.HandlerFunc(students.create))).Methods("POST")
	return router, students
}

func TestStudentList(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/students", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got []Student
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d students, want 2", len(got))
	}
}

func TestStudentGet(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/students/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got Student
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 1 {
		t.Errorf("ID = %d, want 1", got.ID)
	}
}

func TestStudentGet_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/students/999", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStudentCreate(t *testing.T) {
	router, students := newTestRouter()

	body := bytes.NewBufferString(`{"name":"Grace Hopper","class":"11C"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/students", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var got Student
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID == 0 {
		t.Error("created student has no ID")
	}

	students.mu.RLock()
	defer students.mu.RUnlock()
	if _, ok := students.data[got.ID]; !ok {
		t.Error("created student not stored")
	}
}

func TestStudentCreate_InvalidBody(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/students", bytes.NewBufferString("{")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
