package logger

import (
	"strings"

	"github.com/aleister1102/seotracker/internal/common"

	"github.com/rs/zerolog"
)

// ParseLevel parses string log level to zerolog.Level. An empty string is
// the default level.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat maps a format name to a LogFormat. Unknown names fall back to
// console.
func ParseFormat(formatStr string) LogFormat {
	format := LogFormat(strings.ToLower(formatStr))
	if format == "" || !IsValidFormat(formatStr) {
		return FormatConsole
	}
	return format
}

// ConvertConfig converts the file configuration to a LoggerConfig
func ConvertConfig(cfg FileLogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return LoggerConfig{}, err
	}

	out := defaultLoggerConfig()
	out.Level = level
	out.Format = ParseFormat(cfg.LogFormat)
	out.FilePath = cfg.LogFile
	if cfg.MaxLogSizeMB > 0 {
		out.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		out.MaxBackups = cfg.MaxLogBackups
	}
	return out, nil
}
