package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{" Warn ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	log := logger.New(buf, "warn")

	log.Info("dropped")
	log.Warn("kept", slog.String("deck_id", "7"))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "7", entries[0]["deck_id"])
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	log := logger.New(buf, "chatty")
	log.Debug("not shown")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "chatty", entries[0]["configured_level"])
}

func TestSetup_InstallsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	log, err := logger.Setup(config.ServerConfig{LogLevel: "debug", Port: 8080})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Same(t, log, slog.Default())
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(&logger.TestLogBuffer{}, nil))
	custom := slog.New(slog.NewTextHandler(&logger.TestLogBuffer{}, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{"nil context", nil, fallback},
		{"context without logger", context.Background(), fallback},
		{"context with logger", logger.WithLogger(context.Background(), custom), custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.expected, logger.FromContextOrDefault(tt.ctx, fallback))
		})
	}
}

func TestWithLogger_NilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.WithLogger(context.Background(), nil)
	})
}

func TestWithRequestID_TagsContextLogger(t *testing.T) {
	t.Parallel()

	ctx, buf := logger.NewTestContext(t)
	assert.True(t, strings.HasPrefix(logger.RequestIDFromContext(ctx), "test-"))

	logger.FromContext(ctx).Info("grading")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, logger.RequestIDFromContext(ctx), entries[0]["request_id"])
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, logger.RequestIDFromContext(context.Background()))
	assert.Empty(t, logger.RequestIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}
