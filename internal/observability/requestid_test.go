package observability

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	id := NewRequestID()
	if id == "" || id == NewRequestID() {
		t.Fatalf("request ids must be unique and non-empty: %q", id)
	}
	if got := RequestID(WithRequestID(context.Background(), id)); got != id {
		t.Fatalf("unexpected id %q", got)
	}
}
