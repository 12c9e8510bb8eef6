// Package logger builds the application's zerolog logger from configuration.
package logger

import "github.com/rs/zerolog"

// New creates a logger from the file configuration
func New(cfg FileLogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
