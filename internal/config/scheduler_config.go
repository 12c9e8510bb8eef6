package config

import "time"

// SchedulerConfig defines configuration for automated mode
type SchedulerConfig struct {
	CycleMinutes int `json:"cycle_minutes,omitempty" yaml:"cycle_minutes,omitempty" validate:"min=1"`
	// HistoryDBPath is the SQLite file recording finished cycles; empty disables it.
	HistoryDBPath string `json:"history_db_path,omitempty" yaml:"history_db_path,omitempty"`
}

// NewDefaultSchedulerConfig creates default scheduler configuration
func NewDefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		CycleMinutes:  DefaultSchedulerCycleMinutes,
		HistoryDBPath: DefaultSchedulerHistoryDBPath,
	}
}

// Interval returns the cycle interval
func (sc SchedulerConfig) Interval() time.Duration {
	return time.Duration(sc.CycleMinutes) * time.Minute
}
