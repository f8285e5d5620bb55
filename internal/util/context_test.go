package util

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "test-request-123")

	if got := GetRequestID(ctx); got != "test-request-123" {
		t.Errorf("GetRequestID() = %s, want test-request-123", got)
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() from empty context = %s, want empty string", got)
	}
}
