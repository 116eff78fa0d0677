package config

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerTo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name      string
		cfg       LoggerConfig
		wantLevel zerolog.Level
	}{
		{name: "debug level", cfg: LoggerConfig{Level: "debug", Format: "json"}, wantLevel: zerolog.DebugLevel},
		{name: "warn level", cfg: LoggerConfig{Level: "warn", Format: "json"}, wantLevel: zerolog.WarnLevel},
		{name: "unknown level falls back to info", cfg: LoggerConfig{Level: "loud", Format: "json"}, wantLevel: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerTo(tt.cfg, &buf)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logger.Error().Str("component", "test").Msg("hello")
			assert.Contains(t, buf.String(), `"message":"hello"`)
			assert.Contains(t, buf.String(), `"component":"test"`)
		})
	}
}

func TestNewLoggerTo_Console(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := NewLoggerTo(LoggerConfig{Level: "info", Format: "console"}, &buf)
	logger.Info().Msg("console output")

	assert.Contains(t, buf.String(), "console output")
	assert.NotContains(t, buf.String(), `"message"`)
}
