package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	log, err := New(NewDefaultFileLogConfig())
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestBuild_JSONToConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerBuilder().
		WithConfig(FileLogConfig{LogLevel: "debug", LogFormat: "json"}).
		WithConsoleOutput(&buf).
		Build()
	require.NoError(t, err)

	log.Debug().Str("component", "test").Msg("hello")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerBuilder().
		WithConfig(FileLogConfig{LogLevel: "WARN", LogFormat: "json"}).
		WithConsoleOutput(&buf).
		Build()
	require.NoError(t, err)

	log.Info().Msg("quiet")
	assert.Empty(t, buf.String())
}

func TestBuild_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tracker.log")
	var console bytes.Buffer

	log, err := NewLoggerBuilder().
		WithConfig(FileLogConfig{LogFile: path, LogFormat: "json"}).
		WithConsoleOutput(&console).
		Build()
	require.NoError(t, err)

	log.Info().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, err := NewLoggerBuilder().WithConfig(FileLogConfig{LogLevel: "verbose"}).Build()
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatConsole, ParseFormat(""))
	assert.Equal(t, FormatConsole, ParseFormat("xml"))
	assert.True(t, IsValidFormat("Console"))
	assert.True(t, IsValidFormat(""))
	assert.False(t, IsValidFormat("xml"))
}
