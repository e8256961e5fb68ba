package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewZapLogger_Levels(t *testing.T) {
	logger, err := NewZapLogger(Config{Level: "warn", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewZapLogger(Config{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewZapLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger, err := NewZapLogger(Config{Level: "info", Output: "file", FilePath: path})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}
