package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "info", &buf)

	l.Info("hello", slog.String("key", "value"))

	entry := logLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "catalog-service", entry["service"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "warn", &buf)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "bogus", &buf)

	l.Debug("dropped")
	assert.Zero(t, buf.Len())

	l.Info("kept")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-1")
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestTenantID_RoundTrip(t *testing.T) {
	ctx := WithTenantID(context.Background(), "tok-1")
	assert.Equal(t, "tok-1", TenantIDFromContext(ctx))
	assert.Empty(t, TenantIDFromContext(context.Background()))
}

func TestFromContext_Default(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContext_Stored(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "info", &buf)
	ctx := NewContext(context.Background(), l)

	assert.Equal(t, l, FromContext(ctx))
}

func TestWithContext_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithTenantID(ctx, "tok-1")

	WithContext(ctx, l).Info("scoped")

	entry := logLine(t, &buf)
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "tok-1", entry["tenant_id"])
}

func TestWithContext_NoFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("catalog-service", "info", &buf)

	WithContext(context.Background(), l).Info("plain")

	entry := logLine(t, &buf)
	assert.NotContains(t, entry, "correlation_id")
	assert.NotContains(t, entry, "tenant_id")
	assert.NotContains(t, entry, "trace_id")
}
