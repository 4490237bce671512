package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceIDContext(t *testing.T) {
	t.Run("adds provided trace ID to context", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "test-trace-123")
		require.NotNil(t, ctx)
		assert.Equal(t, "test-trace-123", GetTraceID(ctx))
	})

	t.Run("generates new trace ID when empty string provided", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "")
		require.NotNil(t, ctx)

		traceID := GetTraceID(ctx)
		assert.NotEmpty(t, traceID)
		// Verify it's a valid UUID format (36 characters with hyphens)
		assert.Len(t, traceID, 36)
	})

	t.Run("preserves other context values", func(t *testing.T) {
		type testKey string
		key := testKey("test-key")

		ctx := context.WithValue(context.Background(), key, "test-value")
		ctx = WithTraceID(ctx, "trace-456")

		assert.Equal(t, "trace-456", GetTraceID(ctx))
		value, ok := ctx.Value(key).(string)
		require.True(t, ok)
		assert.Equal(t, "test-value", value)
	})
}

func TestGetTraceID(t *testing.T) {
	t.Run("returns empty string when no trace ID in context", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})
}
