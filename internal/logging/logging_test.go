package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fscache/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Format: logging.FormatJSON, Out: &buf})

	logger.Debug().Str("key", "abc").Msg("cache entry expired")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "abc", line["key"])
	assert.Equal(t, "cache entry expired", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := logging.New(logging.Config{Level: tt.level, Out: &bytes.Buffer{}})
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_Formats(t *testing.T) {
	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(logging.Config{Format: logging.FormatConsole, Out: &buf})
		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})

	t.Run("auto on non-terminal is JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(logging.Config{Format: logging.FormatAuto, Out: &buf})
		logger.Info().Msg("hello")
		assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	})
}

func TestComponentLoggerAndRunID(t *testing.T) {
	var buf bytes.Buffer
	base := logging.New(logging.Config{Format: logging.FormatJSON, Out: &buf})

	logger, id := logging.WithRunID(logging.ComponentLogger(base, "cli"))
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	logger.Info().Msg("command started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cli", line["component"])
	assert.Equal(t, id, line["run_id"])
}
