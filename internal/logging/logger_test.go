package logging_test

import (
	"bytes"
	"testing"

	"github.com/HaiderBassem/dupfinder/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "not-a-level"})
	require.NoError(t, err)
	assert.Equal(t, "info", logger.GetLevel().String())
}

func TestLogOperation_ReturnsUnderlyingError(t *testing.T) {
	logger, err := logging.New(logging.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	sentinel := assert.AnError
	got := logger.LogOperation("test-op", func() error { return sentinel })

	assert.Equal(t, sentinel, got)
	assert.Contains(t, buf.String(), "test-op failed")
}

func TestLogOperation_LogsCompletionOnSuccess(t *testing.T) {
	logger, err := logging.New(logging.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	require.NoError(t, logger.LogOperation("test-op", func() error { return nil }))
	assert.Contains(t, buf.String(), "test-op completed")
}
