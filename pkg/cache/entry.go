package cache

import "encoding/json"

// Entry is the envelope stored for a cached HTTP response.
type Entry struct {
	// Status is the HTTP status code of the cached response.
	Status int `json:"status"`

	// ContentType is the Content-Type header of the cached response.
	ContentType string `json:"content_type,omitempty"`

	// Body is the response body.
	Body []byte `json:"body"`
}

// Cacheable reports whether the entry's status code allows caching.
// Only 2xx responses are ever stored, boundary-inclusive on both ends.
func (e *Entry) Cacheable() bool {
	return e.Status >= 200 && e.Status <= 299
}

// Marshal serializes the entry for storage.
func (e *Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEntry deserializes a stored entry.
func UnmarshalEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
