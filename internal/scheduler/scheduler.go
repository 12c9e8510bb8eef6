// Package scheduler repeats tracking cycles on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/seotracker/internal/tracker"

	"github.com/rs/zerolog"
)

// CycleFunc runs one tracking cycle.
type CycleFunc func(ctx context.Context) (*tracker.CycleResult, error)

// Scheduler runs a cycle immediately and then once per interval until its
// context is cancelled or Stop is called.
type Scheduler struct {
	run      CycleFunc
	interval time.Duration
	history  *HistoryDB
	logger   zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewScheduler creates a Scheduler. history may be nil.
func NewScheduler(run CycleFunc, interval time.Duration, history *HistoryDB, logger zerolog.Logger) (*Scheduler, error) {
	if run == nil {
		return nil, errors.New("cycle function is required")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	return &Scheduler{
		run:      run,
		interval: interval,
		history:  history,
		logger:   logger.With().Str("component", "Scheduler").Logger(),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}, nil
}

// Start blocks, running cycles until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("scheduler is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("Starting automated cycles")
	s.logLastCycle(ctx)

	for {
		s.RunOnce(ctx)

		next := s.now().Add(s.interval)
		s.logger.Info().Time("next_cycle_time", next).Msg("Next cycle scheduled")

		timer := time.NewTimer(s.interval)
		select {
		case <-timer.C:
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info().Msg("Scheduler stopped")
			return nil
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("Context cancelled, scheduler exiting")
			return nil
		}
	}
}

// RunOnce runs a single cycle and records it in the history database.
func (s *Scheduler) RunOnce(ctx context.Context) (*tracker.CycleResult, error) {
	start := s.now()
	result, err := s.run(ctx)
	end := s.now()

	if err != nil {
		s.logger.Error().Err(err).Msg("Cycle failed")
	}

	if s.history != nil {
		if _, herr := s.history.RecordCycle(context.WithoutCancel(ctx), start, end, result, err); herr != nil {
			s.logger.Error().Err(herr).Msg("Failed to record cycle history")
		}
	}
	return result, err
}

func (s *Scheduler) logLastCycle(ctx context.Context) {
	if s.history == nil {
		return
	}
	last, err := s.history.GetLastCycleTime(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read last cycle time")
		return
	}
	if last == nil {
		s.logger.Info().Msg("No previous completed cycle found")
		return
	}
	s.logger.Info().Time("last_cycle_time", *last).Msg("Resuming after previous cycle")
}

// Stop ends a running Start loop after the current cycle.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// IsRunning reports whether Start is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
