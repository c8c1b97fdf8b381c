package internal

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "warn", "json")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Str("path", "/tmp/x").Msg("shown")
	assert.Contains(t, buf.String(), `"path":"/tmp/x"`)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "chatty", "json")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger = newLogger(&buf, "", "json")
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "debug", "console")
	logger.Debug().Msg("walk started")

	out := buf.String()
	assert.Contains(t, out, "walk started")
	assert.NotContains(t, out, `"message"`)
}
