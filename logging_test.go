package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerWithoutFileIsSilent(t *testing.T) {
	log, err := newLogger(LogConfig{Level: "info"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.ErrorLevel))
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mindboard.log")
	log, err := newLogger(LogConfig{File: path, Level: "warn"})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", zap.String("node", "node-1"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"node":"node-1"`)
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, err := newLogger(LogConfig{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	assert.Error(t, err)
}
