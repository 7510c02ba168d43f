package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"brokerage/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, telemetry.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, telemetry.ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, telemetry.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, telemetry.ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, telemetry.ParseLevel(""))
}

func TestInit_TracingDisabled(t *testing.T) {
	var buf bytes.Buffer
	instruments, shutdown, err := telemetry.Init(context.Background(), telemetry.Options{
		ServiceName: "order-desk",
		LogLevel:    slog.LevelInfo,
		Output:      &buf,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	_, span := instruments.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	instruments.Logger.Info("hello", "order.id", "abc")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["order.id"])
}
