package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSessionIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name   string
		ctx    context.Context
		want   uuid.UUID
		wantOK bool
	}{
		{"present", WithSessionID(context.Background(), id), id, true},
		{"empty context", context.Background(), uuid.Nil, false},
		{"nil uuid", WithSessionID(context.Background(), uuid.Nil), uuid.Nil, false},
		{"wrong type", context.WithValue(context.Background(), ctxKey("session_id"), id.String()), uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SessionIDFromCtx(tt.ctx)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("id = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequestIDFromCtx(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(WithRequestID(context.Background(), "req-123")); got != "req-123" {
		t.Fatalf("expected req-123, got %q", got)
	}
	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := RequestIDFromCtx(context.WithValue(context.Background(), ctxKey("request_id"), 12345)); got != "" {
		t.Fatalf("expected empty string for wrong type, got %q", got)
	}
}
