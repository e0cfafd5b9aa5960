// Package cache provides best-effort HTTP response caching with a Redis
// backend.
//
// The package is built around three pieces:
//
//   - Store: an optional connection to Redis. When no Redis is configured
//     the store is disabled and every operation degrades to a miss/no-op.
//   - Service: failure-tolerant get/set/delete/invalidate operations with
//     JSON serialization and TTL handling.
//   - Middleware: read-through caching for GET endpoints and pattern-based
//     invalidation after mutating requests.
//
// Caching is strictly optional infrastructure. No error originating in
// this package ever changes the HTTP status or body a client receives;
// the worst case is that a response is computed instead of served from
// cache.
//
// # Basic Usage
//
//	store, err := cache.Connect(ctx, cache.StoreConfig{URL: "redis://localhost:6379/0"}, logger)
//	if err != nil {
//		// Redis was configured but unreachable.
//		return err
//	}
//	defer store.Close()
//
//	svc := cache.NewService(store, cache.ServiceConfig{DefaultTTL: 5 * time.Minute}, logger)
//
//	var students []Student
//	if svc.Get(ctx, key, &students) {
//		// cache hit
//	}
//
// # Cache-Aside
//
//	students, err := cache.GetOrSet(ctx, svc, key, 0, func(ctx context.Context) ([]Student, error) {
//		return loadStudents(ctx)
//	})
//
// # HTTP Middleware
//
//	mw := cache.Middleware(svc, cache.MiddlewareConfig{
//		TTL:       5 * time.Minute,
//		KeyPrefix: "student",
//	})
//	router.Handle("/api/students", mw(listStudents)).Methods("GET")
//
//	inv := cache.Invalidate(svc, cache.InvalidateConfig{
//		Patterns: []string{cache.KeyPattern("student")},
//	})
//	router.Handle("/api/students", inv(createStudent)).Methods("POST")
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - apicache_hits_total - Cache hits
//   - apicache_misses_total - Cache misses
//   - apicache_errors_total{operation} - Cache operation errors
//   - apicache_invalidated_keys_total - Keys removed by pattern invalidation
//   - apicache_http_requests_total{result} - Middleware outcomes (hit, miss, bypass)
package cache
