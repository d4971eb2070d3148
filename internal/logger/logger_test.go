package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"backoffice/internal/config"
	"backoffice/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LogConfig
		level  zapcore.Level
		hidden zapcore.Level
	}{
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"json info", config.LogConfig{Level: "INFO", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", config.LogConfig{Level: " warn ", Format: "console"}, zapcore.WarnLevel, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			assert.False(t, l.Core().Enabled(tt.hidden))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "verbose"})
	assert.Error(t, err)
}
