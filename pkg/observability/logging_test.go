package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "ERROR", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "xyzzy", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLogger_JSONCarriesServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "rockfall",
		Environment: "test",
		Output:      &buf,
	})

	logger.Info("assessment completed", slog.String("mine_id", "1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "assessment completed", record["msg"])
	assert.Equal(t, "rockfall", record["service"])
	assert.Equal(t, "test", record["env"])
	assert.Equal(t, "1", record["mine_id"])
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}

func TestInitLogger_TextFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"))
}
