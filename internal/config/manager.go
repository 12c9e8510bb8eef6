package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aleister1102/seotracker/internal/statuscheck"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ConfigManager holds the active configuration and optionally reloads it when
// the file changes on disk.
type ConfigManager struct {
	mu           sync.RWMutex
	config       *GlobalConfig
	configPath   string
	logger       zerolog.Logger
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	stopOnce     sync.Once
	lastModified time.Time

	hotReloadEnabled bool
	reloadDelay      time.Duration
}

// ConfigManagerOptions holds options for creating a ConfigManager
type ConfigManagerOptions struct {
	Logger           zerolog.Logger
	HotReloadEnabled bool
	ReloadDelay      time.Duration
}

// DefaultConfigManagerOptions returns default options for ConfigManager
func DefaultConfigManagerOptions() ConfigManagerOptions {
	return ConfigManagerOptions{
		Logger:           zerolog.Nop(),
		HotReloadEnabled: false,
		ReloadDelay:      2 * time.Second,
	}
}

// NewConfigManager loads and validates the configuration at configPath
func NewConfigManager(configPath string, opts ConfigManagerOptions) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath:       GetConfigPath(configPath),
		logger:           opts.Logger.With().Str("component", "ConfigManager").Logger(),
		stopChan:         make(chan struct{}),
		hotReloadEnabled: opts.HotReloadEnabled,
		reloadDelay:      opts.ReloadDelay,
	}

	if err := cm.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}

	if cm.hotReloadEnabled {
		if cm.configPath == "" {
			cm.hotReloadEnabled = false
		} else if err := cm.setupFileWatcher(); err != nil {
			cm.logger.Warn().Err(err).Msg("Failed to setup file watcher, hot-reload disabled")
			cm.hotReloadEnabled = false
		}
	}

	return cm, nil
}

// GetConfig returns a copy of the current configuration
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return copyConfig(cm.config)
}

// ReloadConfig reloads the configuration from file. The previous
// configuration stays active when the new one fails to load or validate.
func (cm *ConfigManager) ReloadConfig() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.loadConfig()
}

// ConfigPath returns the resolved configuration file path
func (cm *ConfigManager) ConfigPath() string {
	return cm.configPath
}

// SetLogger replaces the logger, typically once the configured logger exists
func (cm *ConfigManager) SetLogger(logger zerolog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger.With().Str("component", "ConfigManager").Logger()
}

// IsHotReloadEnabled returns whether hot-reload is active
func (cm *ConfigManager) IsHotReloadEnabled() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.hotReloadEnabled
}

// StartHotReload starts the reload goroutine (non-blocking)
func (cm *ConfigManager) StartHotReload(ctx context.Context) {
	if !cm.IsHotReloadEnabled() {
		return
	}
	go cm.hotReloadLoop(ctx)
}

// Close stops the reload loop and the file watcher
func (cm *ConfigManager) Close() error {
	var err error
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
		if cm.watcher != nil {
			err = cm.watcher.Close()
		}
	})
	return err
}

// loadConfig assumes the lock is held
func (cm *ConfigManager) loadConfig() error {
	cfg, err := LoadGlobalConfig(cm.configPath, cm.logger)
	if err != nil {
		return err
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	if cm.configPath != "" {
		if stat, err := os.Stat(cm.configPath); err == nil {
			cm.lastModified = stat.ModTime()
		}
	}

	cm.config = cfg
	cm.logger.Info().Str("path", cm.configPath).Msg("Configuration loaded")
	return nil
}

func (cm *ConfigManager) setupFileWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors often replace the file, so the directory is watched.
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch config directory '%s': %w", configDir, err)
	}

	cm.watcher = watcher
	cm.logger.Info().Str("directory", configDir).Msg("File watcher setup for hot-reload")
	return nil
}

func (cm *ConfigManager) hotReloadLoop(ctx context.Context) {
	reloadTimer := time.NewTimer(0)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	target := filepath.Clean(cm.configPath)

	for {
		select {
		case <-ctx.Done():
			return

		case <-cm.stopChan:
			return

		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) == target && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cm.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config file change detected")
				reloadTimer.Reset(cm.reloadDelay)
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			stat, err := os.Stat(cm.configPath)
			if err != nil || !stat.ModTime().After(cm.modifiedAt()) {
				continue
			}
			if err := cm.ReloadConfig(); err != nil {
				cm.logger.Error().Err(err).Msg("Failed to reload configuration, keeping previous")
				continue
			}
			cm.logger.Info().Msg("Configuration reloaded")
		}
	}
}

func (cm *ConfigManager) modifiedAt() time.Time {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.lastModified
}

func copyConfig(src *GlobalConfig) *GlobalConfig {
	if src == nil {
		return NewDefaultGlobalConfig()
	}

	dst := *src
	dst.NotificationConfig.EmailRecipients = append([]string(nil), src.NotificationConfig.EmailRecipients...)

	if src.StatusCheckerConfig.Rules != nil {
		dst.StatusCheckerConfig.Rules = make([]statuscheck.Rule, len(src.StatusCheckerConfig.Rules))
		for i, rule := range src.StatusCheckerConfig.Rules {
			dst.StatusCheckerConfig.Rules[i] = statuscheck.Rule{
				Kind:     rule.Kind,
				Keywords: append([]string(nil), rule.Keywords...),
			}
		}
	}
	return &dst
}
