package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.in), tt.in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", FormatJSON, &buf)
	logger.Debug("predict", "tags", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "predict", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, float64(2), rec["tags"])
}

func TestNewLogger_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", FormatText, &buf)
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}

func TestCLIHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo)).With("source", "file")

	logger.Info("artifacts loaded", "labels", 3)
	out := buf.String()
	assert.Contains(t, out, "artifacts loaded: source=file labels=3")
	assert.Contains(t, out, colorGreen)

	buf.Reset()
	logger.WithGroup("check").Error("failed")
	assert.Contains(t, buf.String(), "[check] failed")
	assert.Contains(t, buf.String(), colorRed)

	buf.Reset()
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
}

func TestSetDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := SetDefault("info", FormatCLI, &buf)
	assert.Same(t, logger, slog.Default())
	slog.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
