package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/seotracker/internal/common"

	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config  LoggerConfig
	factory *WriterFactory
	err     error
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  defaultLoggerConfig(),
		factory: NewWriterFactory(),
	}
}

// WithConfig applies a file configuration
func (lb *LoggerBuilder) WithConfig(cfg FileLogConfig) *LoggerBuilder {
	converted, err := ConvertConfig(cfg)
	if err != nil {
		lb.err = err
		return lb
	}
	lb.config = converted
	return lb
}

// WithConsoleOutput redirects console output, mainly for tests
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.factory.stderr = w
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.err != nil {
		return zerolog.Nop(), lb.err
	}
	if err := lb.validateConfig(); err != nil {
		return zerolog.Nop(), err
	}

	var writers []io.Writer
	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format))
	}
	if lb.config.FilePath != "" {
		fw, err := lb.factory.CreateFileWriter(lb.config)
		if err != nil {
			return zerolog.Nop(), common.WrapErrorf(err, "failed to open log file %s", lb.config.FilePath)
		}
		writers = append(writers, fw)
	}
	if len(writers) == 0 {
		return zerolog.Nop(), common.NewError("no output writers configured")
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
	return logger, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}
	return nil
}
