package cache

import (
	"bytes"
	"testing"
)

func TestEntry_Cacheable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{300, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		e := &Entry{Status: tt.status}
		if got := e.Cacheable(); got != tt.want {
			t.Errorf("Entry{Status: %d}.Cacheable() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	entry := &Entry{
		Status:      200,
		ContentType: "application/json",
		Body:        []byte(`{"students":[{"id":1,"name":"Ada Byron"}]}`),
	}

	data, err := entry.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := UnmarshalEntry(data)
	if err != nil {
		t.Fatalf("UnmarshalEntry failed: %v", err)
	}

	if decoded.Status != entry.Status {
		t.Errorf("Status = %d, want %d", decoded.Status, entry.Status)
	}
	if decoded.ContentType != entry.ContentType {
		t.Errorf("ContentType = %q, want %q", decoded.ContentType, entry.ContentType)
	}
	if !bytes.Equal(decoded.Body, entry.Body) {
		t.Errorf("Body = %s, want %s", decoded.Body, entry.Body)
	}
}

func TestEntry_RoundTrip_EmptyBody(t *testing.T) {
	entry := &Entry{Status: 204}

	data, err := entry.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := UnmarshalEntry(data)
	if err != nil {
		t.Fatalf("UnmarshalEntry failed: %v", err)
	}
	if decoded.Status != 204 {
		t.Errorf("Status = %d, want 204", decoded.Status)
	}
	if len(decoded.Body) != 0 {
		t.Errorf("Body = %q, want empty", decoded.Body)
	}
}

func TestUnmarshalEntry_Invalid(t *testing.T) {
	if _, err := UnmarshalEntry([]byte("not json")); err == nil {
		t.Error("UnmarshalEntry should fail on invalid data")
	}
}
