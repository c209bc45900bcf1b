package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.log")

	logger, err := NewLogger(path, InfoLevel, NoStdout)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.With(String("code", "aB3Xy9Km")).Info("created", Int64("id", 1))
	require.NoError(t, logger.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), `"msg":"created"`)
	assert.Contains(t, string(content), `"code":"aB3Xy9Km"`)
	assert.Contains(t, string(content), `"id":1`)
}

func TestLoggerWithRotateLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.log")

	logger, err := NewLogger(path, DebugLevel, NoStdout, WithRotateLog(1, 10, 10))
	require.NoError(t, err)

	logger.Debug("rotate")
	require.NoError(t, logger.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"rotate"`)
}
