// Package ratelimit provides a Redis-backed fixed-window request
// limiter for the API.
//
// Like the cache layer, the limiter is best-effort: when Redis is
// unavailable it fails open and lets the request through rather than
// turning an infrastructure problem into an outage.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	requestsAllowed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apicache_ratelimit_allowed_total",
		Help: "Total requests allowed by the rate limiter",
	})

	requestsBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apicache_ratelimit_blocked_total",
		Help: "Total requests rejected by the rate limiter",
	})
)

// Config holds limiter options.
type Config struct {
	// Window is the fixed window length. Defaults to 1 minute.
	Window time.Duration

	// Max is the number of requests allowed per client per window.
	// Defaults to 100.
	Max int

	// ClientKey extracts the identity a window is tracked for.
	// Defaults to the request's remote IP.
	ClientKey func(r *http.Request) string
}

// Limiter counts requests per client in Redis fixed windows.
type Limiter struct {
	client *redis.Client
	cfg    Config
	logger zerolog.Logger
}

// New creates a limiter. A nil Redis client yields a limiter that
// allows everything.
func New(client *redis.Client, cfg Config, logger zerolog.Logger) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Max <= 0 {
		cfg.Max = 100
	}
	if cfg.ClientKey == nil {
		cfg.ClientKey = remoteIP
	}
	return &Limiter{client: client, cfg: cfg, logger: logger}
}

// Allow reports whether the request fits in the client's current window
// and returns the seconds until the window resets when it does not.
func (l *Limiter) Allow(r *http.Request) (bool, int) {
	if l.client == nil {
		return true, 0
	}

	ctx := r.Context()
	window := time.Now().UnixNano() / int64(l.cfg.Window)
	key := fmt.Sprintf("ratelimit:%s:%d", l.cfg.ClientKey(r), window)

	pipe := l.client.Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: the limiter must not take the API down with it.
		l.logger.Warn().Err(err).Msg("Rate limit check failed, allowing request")
		return true, 0
	}

	if count.Val() > int64(l.cfg.Max) {
		wait := time.Duration((window+1)*int64(l.cfg.Window) - time.Now().UnixNano())
		return false, int(wait / time.Second)
	}
	return true, 0
}

// Middleware returns middleware that rejects over-limit requests with
// 429 and a Retry-After header.
func (l *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := l.Allow(r)
			if !allowed {
				requestsBlocked.Inc()
				l.logger.Warn().
					Str("client", l.cfg.ClientKey(r)).
					Str("path", r.URL.Path).
					Msg("Request rate limited")
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			requestsAllowed.Inc()
			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP strips the port from RemoteAddr.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
