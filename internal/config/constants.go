package config

const (
	// Mode values
	ModeOnetime   = "onetime"
	ModeAutomated = "automated"

	// ConfigPathEnv overrides the default config file lookup
	ConfigPathEnv = "SEOTRACKER_CONFIG_PATH"

	// Sheet Defaults
	DefaultSheetPath       = "targets.xlsx"
	DefaultSheetName       = "Sheet1"
	DefaultSheetHeaderRows = 1

	// Status Checker Defaults
	DefaultStatusConnectTimeoutSecs = 5
	DefaultStatusCacheTTLMinutes    = 360
	DefaultStatusKeyPrefix          = "status-"

	// Page Fetcher Defaults
	DefaultPageTimeoutSecs      = 30
	DefaultPageMaxContentSizeMB = 5

	// Cache Defaults
	DefaultCacheBackend    = "memory"
	DefaultCacheRedisAddr  = "localhost:6379"
	DefaultCacheSQLitePath = "database/status_cache.db"

	// Notification Defaults
	DefaultSMTPPort            = 587
	DefaultNotificationSubject = "!!Changes to Target Pages Found!!"

	// Scheduler Defaults
	DefaultSchedulerCycleMinutes  = 1440
	DefaultSchedulerHistoryDBPath = "database/cycle_history.db"
)
