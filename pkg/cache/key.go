package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// KeyNamespace is the leading segment of every cache key written by this
// package. Invalidation patterns are scoped to the same namespace.
const KeyNamespace = "http"

// RequestKey generates a deterministic cache key for an HTTP request.
// Format: http:<prefix>:<hex sha256 digest>
//
// The digest covers the key prefix, the request path and the canonical
// form of the query parameters, so identical logical requests always map
// to the same key regardless of query parameter order.
func RequestKey(prefix string, r *http.Request) string {
	return KeyFor(prefix, r.URL.Path, r.URL.Query())
}

// KeyFor generates the cache key for a path and query parameter set
// without requiring an *http.Request.
func KeyFor(prefix, path string, query url.Values) string {
	h := sha256.New()
	h.Write([]byte(prefix))
	h.Write([]byte{'|'})
	h.Write([]byte(path))
	h.Write([]byte{'|'})
	h.Write([]byte(canonicalQuery(query)))

	return KeyNamespace + ":" + prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// KeyPattern builds a glob pattern for invalidating every key under the
// given prefix segments.
//
// Example:
//
//	KeyPattern("student")           // "http:student:*"
//	KeyPattern("student", "export") // "http:student:export:*"
func KeyPattern(segments ...string) string {
	parts := append([]string{KeyNamespace}, segments...)
	return strings.Join(parts, ":") + ":*"
}

// canonicalQuery encodes query parameters deterministically: keys sorted,
// values within a key sorted. url.Values.Encode already sorts keys, so
// only the value slices need normalizing.
func canonicalQuery(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	canonical := make(url.Values, len(query))
	for key, values := range query {
		sorted := make([]string, len(values))
		copy(sorted, values)
		sort.Strings(sorted)
		canonical[key] = sorted
	}

	return canonical.Encode()
}
