package cache

import "net/http"

// statusRecorder captures only the response status code. Unlike
// responseRecorder it does not buffer the body; invalidation never
// needs it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// InvalidateConfig holds invalidation middleware options.
type InvalidateConfig struct {
	// Patterns are the glob patterns to invalidate after a mutating
	// request, processed in order. See KeyPattern.
	Patterns []string

	// RequireSuccess gates invalidation on the handler having produced
	// a 2xx response. Default false: invalidation runs regardless of
	// the handler outcome, matching the historical behavior of this
	// layer. A failed mutation then still evicts valid entries, which
	// is wasteful but never incorrect.
	RequireSuccess bool
}

// Invalidate returns middleware that evicts cached entries after a
// mutating request. Safe methods (GET, HEAD, OPTIONS) pass through
// untouched, so the middleware can wrap a whole router.
//
// Each pattern is invalidated in order; a failing pattern is logged by
// the service and does not abort the chain.
func Invalidate(svc *Service, cfg InvalidateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// A handler that never writes is an implicit 200.
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			if cfg.RequireSuccess && (status < 200 || status > 299) {
				return
			}

			for _, pattern := range cfg.Patterns {
				svc.InvalidatePattern(r.Context(), pattern)
			}
		})
	}
}
