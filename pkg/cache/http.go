package cache

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// MiddlewareConfig holds response cache middleware options.
type MiddlewareConfig struct {
	// TTL is the expiry for cached responses. Defaults to DefaultTTL.
	TTL time.Duration

	// KeyPrefix scopes the generated cache keys. Defaults to "api".
	KeyPrefix string

	// SkipIf excludes individual requests from caching, e.g. requests
	// carrying user-specific data. A true return means the request
	// passes through with no cache interaction. Optional.
	SkipIf func(r *http.Request) bool
}

// responseRecorder wraps http.ResponseWriter to capture the status code
// and body while they stream to the client, so successful responses can
// be stored after the handler returns.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (w *responseRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.status = http.StatusOK
		w.wroteHeader = true
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware returns read-through caching middleware for GET endpoints.
//
// Only GET requests interact with the cache; every other method passes
// through unconditionally. On a hit the cached status and body are
// written directly and the handler never runs. On a miss (or any cache
// error) the handler runs through a recording writer and, when it
// produced a 2xx response, the result is stored asynchronously after the
// response is already on the wire.
//
// The middleware is transparent to API consumers: status codes and
// bodies are identical whether served from cache or from the handler.
func Middleware(svc *Service, cfg MiddlewareConfig) func(http.Handler) http.Handler {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "api"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || (cfg.SkipIf != nil && cfg.SkipIf(r)) {
				HTTPRequests.WithLabelValues("bypass").Inc()
				next.ServeHTTP(w, r)
				return
			}

			key := RequestKey(prefix, r)

			if data, ok := svc.getBytes(r.Context(), key); ok {
				entry, err := UnmarshalEntry(data)
				if err != nil {
					// Corrupt envelope; treat as a miss.
					CacheErrors.WithLabelValues("get").Inc()
					svc.logger.Warn().Err(err).Str("key", key).Msg("Cache entry decode failed")
				} else {
					CacheHits.Inc()
					HTTPRequests.WithLabelValues("hit").Inc()
					if entry.ContentType != "" {
						w.Header().Set("Content-Type", entry.ContentType)
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(entry.Status)
					_, _ = w.Write(entry.Body)
					return
				}
			}

			HTTPRequests.WithLabelValues("miss").Inc()
			rec := &responseRecorder{ResponseWriter: w}
			rec.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			entry := Entry{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if !entry.Cacheable() {
				return
			}

			// Store after the response is on the wire. The request
			// context may be cancelled as soon as the handler returns,
			// so the write gets its own deadline.
			storeCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
			go func() {
				defer cancel()
				data, err := entry.Marshal()
				if err != nil {
					CacheErrors.WithLabelValues("set").Inc()
					svc.logger.Warn().Err(err).Str("key", key).Msg("Cache entry encode failed")
					return
				}
				svc.setBytes(storeCtx, key, data, ttl)
			}()
		})
	}
}
