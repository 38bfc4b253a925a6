package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestInitializeReplacesNopLogger(t *testing.T) {
	prev := Log
	t.Cleanup(func() {
		Log = prev
		SugaredLog = prev.Sugar()
	})

	logFile := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, Initialize("debug", logFile))

	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, SugaredLog)
	_ = Close()
}

func TestDefaultLoggerIsSafeToUse(t *testing.T) {
	assert.NotPanics(t, func() {
		Log.Info("before initialize", zap.String("k", "v"))
		WarnWithFields("warn", nil)
		ErrorWithFields("error", assert.AnError)
	})
}
