package logger

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogFormat is the name of an output encoding as written in the config file.
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatConsole LogFormat = "console"
	// FormatText is the console layout without colors.
	FormatText LogFormat = "text"
)

// IsValidFormat reports whether name is a known format. An empty name is
// valid and selects the console format.
func IsValidFormat(name string) bool {
	switch LogFormat(strings.ToLower(name)) {
	case "", FormatJSON, FormatConsole, FormatText:
		return true
	}
	return false
}

// LoggerConfig is the resolved logger setup. File output is enabled when
// FilePath is set.
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
}

func defaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:         zerolog.InfoLevel,
		Format:        FormatConsole,
		EnableConsole: true,
		MaxSizeMB:     DefaultMaxLogSizeMB,
		MaxBackups:    DefaultMaxLogBackups,
	}
}
