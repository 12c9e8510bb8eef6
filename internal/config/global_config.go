package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/differ"
	"github.com/aleister1102/seotracker/internal/logger"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	Mode                string               `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required,mode"`
	LogConfig           logger.FileLogConfig `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	SheetConfig         SheetConfig          `json:"sheet_config,omitempty" yaml:"sheet_config,omitempty"`
	StatusCheckerConfig StatusCheckerConfig  `json:"status_checker_config,omitempty" yaml:"status_checker_config,omitempty"`
	PageFetcherConfig   PageFetcherConfig    `json:"page_fetcher_config,omitempty" yaml:"page_fetcher_config,omitempty"`
	CacheConfig         CacheConfig          `json:"cache_config,omitempty" yaml:"cache_config,omitempty"`
	DiffConfig          differ.DiffConfig    `json:"diff_config,omitempty" yaml:"diff_config,omitempty"`
	NotificationConfig  NotificationConfig   `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	SchedulerConfig     SchedulerConfig      `json:"scheduler_config,omitempty" yaml:"scheduler_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Mode:                ModeOnetime,
		LogConfig:           logger.NewDefaultFileLogConfig(),
		SheetConfig:         NewDefaultSheetConfig(),
		StatusCheckerConfig: NewDefaultStatusCheckerConfig(),
		PageFetcherConfig:   NewDefaultPageFetcherConfig(),
		CacheConfig:         NewDefaultCacheConfig(),
		DiffConfig:          differ.DefaultDiffConfig(),
		NotificationConfig:  NewDefaultNotificationConfig(),
		SchedulerConfig:     NewDefaultSchedulerConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// YAML is used for .yaml and .yml files, JSON otherwise. When no file is
// found the defaults are returned.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	fileManager := common.NewFileManager(logger)
	if !fileManager.FileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// SaveGlobalConfig writes cfg to path in the format implied by its extension
func SaveGlobalConfig(cfg *GlobalConfig, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAMLFile(filepath.Ext(path)) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return common.WrapError(err, "failed to marshal config")
	}
	return common.NewFileManager(zerolog.Nop()).WriteFile(path, data)
}

func loadConfigFileContent(fileManager *common.FileManager, filePath string) ([]byte, error) {
	opts := common.DefaultFileReadOptions()
	opts.MaxSize = 10 * 1024 * 1024

	return fileManager.ReadFile(filePath, opts)
}

func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
