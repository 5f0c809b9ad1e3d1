package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNewRespectsLevel(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.False(t, log.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Zap().Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.LoggingConfig{Level: "info", Format: "console", OutputPath: path})
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()
	assert.FileExists(t, path)
}
