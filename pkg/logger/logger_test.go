package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	// Get Stats Before
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Info().Str("tour", "keyvalue").Msg("Test")
	// Get Stats After
	require.Contains(t, buff.String(), "Test")
	require.Contains(t, buff.String(), `"tour":"keyvalue"`)
}

func TestLogLevel(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).WithLevel("warn").Make()
	require.NoError(t, err)

	templogger.Logger.Info().Msg("hidden")
	require.Equal(t, 0, buff.Len())

	templogger.Logger.Warn().Msg("shown")
	require.Contains(t, buff.String(), "shown")
}

func TestLogInvalidLevel(t *testing.T) {
	_, err := logger.New().WithLevel("loud").Make()
	require.Error(t, err)
}

func TestLogConsole(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Console(true).Make()
	require.NoError(t, err)

	templogger.Logger.Info().Msg("pretty")
	require.Contains(t, buff.String(), "pretty")
	require.NotContains(t, buff.String(), `"message"`)
}

func TestLogFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbtour.log")
	templogger, err := logger.New().FromPath(path).Make()
	require.NoError(t, err)

	templogger.Logger.Error().Msg("to file")
	require.NoError(t, templogger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
}
