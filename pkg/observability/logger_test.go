package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		wantLevel   zapcore.Level
	}{
		{"production info", "production", "info", zapcore.InfoLevel},
		{"development debug", "development", "debug", zapcore.DebugLevel},
		{"warn level", "development", "warn", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.environment, tt.level)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
		})
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	logger, err := NewLogger("development", "chatty")

	require.Error(t, err)
	assert.Nil(t, logger)
	assert.Contains(t, err.Error(), "chatty")
}
