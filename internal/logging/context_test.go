package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_NoLogger(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestFromContext_WithLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := WithContext(context.Background(), custom)

	assert.Same(t, custom, FromContext(ctx))
}

func TestContextWith(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := ContextWith(WithContext(context.Background(), custom), "request_id", "123")
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=123")
	assert.Contains(t, buf.String(), "msg=hello")
}
