package logging

import (
	"testing"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger_DefaultsToInfo(t *testing.T) {
	logger, err := InitLogger(config.NewFromViper(config.NewEmptyViper()))
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitConsoleLogger(t *testing.T) {
	quiet, err := InitConsoleLogger(false, false)
	require.NoError(t, err)
	assert.True(t, quiet.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel))

	verbose, err := InitConsoleLogger(true, true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "", want: zapcore.InfoLevel},
		{name: "debug", want: zapcore.DebugLevel},
		{name: "info", want: zapcore.InfoLevel},
		{name: "warn", want: zapcore.WarnLevel},
		{name: "error", want: zapcore.ErrorLevel},
		{name: "loud", want: zapcore.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := parseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, level)
		})
	}
}
