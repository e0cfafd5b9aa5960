package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// DefaultTTL is the expiry applied when a Set or GetOrSet call does
	// not specify one.
	DefaultTTL = 5 * time.Minute

	// scanBatchSize bounds each SCAN iteration during pattern
	// invalidation so large keyspaces never block the server.
	scanBatchSize = 100
)

// ServiceConfig holds Service options.
type ServiceConfig struct {
	// DefaultTTL is used when an operation passes ttl <= 0.
	// Defaults to DefaultTTL.
	DefaultTTL time.Duration
}

// Service provides failure-tolerant cache operations over a Store.
//
// Every method treats an unavailable or erroring store the same way:
// behave like a miss or no-op, log at warning level and continue. The
// caller's business logic must be correct with caching entirely
// disabled, so nothing here ever escalates a cache problem into a
// request failure.
type Service struct {
	store      *Store
	defaultTTL time.Duration
	logger     zerolog.Logger
}

// NewService creates a cache service on top of the given store.
func NewService(store *Store, cfg ServiceConfig, logger zerolog.Logger) *Service {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:      store,
		defaultTTL: ttl,
		logger:     logger,
	}
}

// getBytes fetches the raw stored bytes for key. It accounts for misses
// and store errors; decode accounting is the caller's job.
func (s *Service) getBytes(ctx context.Context, key string) ([]byte, bool) {
	client := s.store.Client()
	if client == nil {
		return nil, false
	}

	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return nil, false
		}
		CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed")
		return nil, false
	}
	return data, true
}

// setBytes stores pre-encoded bytes under key with the given TTL.
// ttl <= 0 uses the service default.
func (s *Service) setBytes(ctx context.Context, key string, data []byte, ttl time.Duration) {
	client := s.store.Client()
	if client == nil {
		return
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}
}

// Get retrieves the value stored under key and JSON-decodes it into
// dest. Returns false on absence, store unavailability, store errors
// and decode errors.
func (s *Service) Get(ctx context.Context, key string, dest any) bool {
	data, ok := s.getBytes(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache entry decode failed")
		return false
	}

	CacheHits.Inc()
	return true
}

// Set JSON-encodes value and stores it under key with the given TTL.
// ttl <= 0 uses the service default. No-ops when the store is
// unavailable; serialization and store errors are logged and swallowed.
func (s *Service) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !s.store.Available() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache entry encode failed")
		return
	}

	s.setBytes(ctx, key, data, ttl)
}

// Delete removes a single key. No-ops when the store is unavailable.
func (s *Service) Delete(ctx context.Context, key string) {
	client := s.store.Client()
	if client == nil {
		return
	}

	if err := client.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
	}
}

// InvalidatePattern removes every key matching the glob pattern and
// returns the number deleted.
//
// The keyspace is walked with cursor-based SCAN in bounded batches and
// the walk continues until the cursor returns to zero, so stores holding
// far more keys than one batch are invalidated completely. Matched keys
// are deleted batch by batch as the scan progresses.
func (s *Service) InvalidatePattern(ctx context.Context, pattern string) int {
	client := s.store.Client()
	if client == nil {
		return 0
	}

	deleted := 0
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			CacheErrors.WithLabelValues("scan").Inc()
			s.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache scan failed")
			return deleted
		}

		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				CacheErrors.WithLabelValues("delete").Inc()
				s.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache batch delete failed")
			} else {
				deleted += int(n)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		InvalidatedKeys.Add(float64(deleted))
		s.logger.Debug().Str("pattern", pattern).Int("deleted", deleted).Msg("Cache invalidated")
	}
	return deleted
}

// Flush clears the entire store. No-ops when unavailable.
func (s *Service) Flush(ctx context.Context) {
	client := s.store.Client()
	if client == nil {
		return
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		CacheErrors.WithLabelValues("flush").Inc()
		s.logger.Warn().Err(err).Msg("Cache flush failed")
	}
}

// GetOrSet implements the cache-aside pattern. On a hit it returns the
// cached value without calling fetch. On a miss it calls fetch exactly
// once, stores the result under key (with the service default TTL when
// ttl <= 0) and returns it. Errors from fetch propagate unchanged and
// nothing is stored.
//
// Concurrent misses for the same key are not deduplicated: each caller
// runs its own fetch and the last write wins. For a deterministic fetch
// the writes are equivalent, which is the accepted tradeoff here.
func GetOrSet[T any](ctx context.Context, s *Service, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	s.Set(ctx, key, value, ttl)
	return value, nil
}
