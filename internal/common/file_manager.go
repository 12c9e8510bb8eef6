package common

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileReadOptions controls how FileManager.ReadFile reads a file
type FileReadOptions struct {
	// MaxSize rejects files larger than this many bytes; 0 disables the check.
	MaxSize int64
}

// DefaultFileReadOptions returns options suitable for small config files
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{MaxSize: 10 * 1024 * 1024}
}

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ReadFile reads a file with the given options
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to stat file: %s", path))
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "is a directory")
	}
	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return nil, NewValidationError("path", path, fmt.Sprintf("file exceeds %d bytes", opts.MaxSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			fm.logger.Error().Err(err).Str("path", path).Msg("Failed to close file.")
		}
	}()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		reader = io.LimitReader(file, opts.MaxSize)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to read file: %s", path))
	}
	return content, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if path == "" || path == "." {
		return nil
	}

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}
	fm.logger.Debug().Str("path", path).Msg("Directory created")
	return nil
}

// WriteFile writes data to path, creating parent directories as needed
func (fm *FileManager) WriteFile(path string, data []byte) error {
	if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WrapError(err, "failed to write file: "+path)
	}
	return nil
}
