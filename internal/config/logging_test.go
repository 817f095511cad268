package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want LogLevel
	}{
		{"off", LogLevelOff},
		{"none", LogLevelOff},
		{"ERROR", LogLevelError},
		{" debug ", LogLevelDebug},
		{"unknown", LogLevelError},
		{"", LogLevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestLogger_WritesAtLevel(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stakectl.log")

	logger, err := NewLogger(LogLevelError, path)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Error("refresh failed: %s", "timeout")
	logger.Debug("should be suppressed")

	data, err := os.ReadFile(path) // #nosec G304 -- temp dir path
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ERROR] refresh failed: timeout")
	assert.NotContains(t, string(data), "suppressed")
}

func TestLogger_OffWritesNothing(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "stakectl.log")

	logger, err := NewLogger(LogLevelOff, path)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Error("dropped")

	// Level off skips opening the file entirely.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := NullLogger()
	logger.Error("ignored")
	logger.Debug("ignored")
	assert.Equal(t, LogLevelOff, logger.Level())
	assert.NoError(t, logger.Close())
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()
	logger := NullLogger()
	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.Level())
}
