package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture() *bytes.Buffer {
	var buf bytes.Buffer
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, nil))
	return &buf
}

func TestWithContextCarriesRequestFields(t *testing.T) {
	buf := capture()
	defer func() { defaultLogger = nil }()

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithUser(ctx, 7, "customer")

	WithContext(ctx).Info("payment settled")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"user_id":7`)
}

func TestWithContextPlainContext(t *testing.T) {
	buf := capture()
	defer func() { defaultLogger = nil }()

	WithContext(context.Background()).Info("startup")

	out := buf.String()
	assert.NotContains(t, out, "request_id")
	assert.NotContains(t, out, "user_id")
}
