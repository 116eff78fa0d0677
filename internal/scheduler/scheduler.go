// Package scheduler runs periodic catalog reloads and rate limiter cleanup.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbwise/internal/catalog"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Reloader swaps in a freshly loaded catalog snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Cleaner drops idle state and reports how many entries were removed.
type Cleaner interface {
	Cleanup() int
}

// Default job settings.
const (
	DefaultReloadTimeout   = 2 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Scheduler drives background jobs with gocron.
type Scheduler struct {
	reloader  Reloader
	schedule  string
	cleaner   Cleaner
	timeout   time.Duration
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
}

// New creates a scheduler that reloads the catalog at the given gocron At()
// times ("03:00" or "06:00;18:00"). An empty schedule disables reloads.
// cleaner may be nil.
func New(reloader Reloader, schedule string, cleaner Cleaner, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		reloader:  reloader,
		schedule:  schedule,
		cleaner:   cleaner,
		timeout:   DefaultReloadTimeout,
		scheduler: gocron.NewScheduler(time.Local),
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the jobs and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	if s.reloader != nil && s.schedule != "" {
		if _, err := s.scheduler.Every(1).Days().At(s.schedule).Do(s.reloadCatalog); err != nil {
			return fmt.Errorf("failed to schedule catalog reload: %w", err)
		}
		s.logger.Info().Str("schedule", s.schedule).Msg("catalog reload scheduled")
	}

	if s.cleaner != nil {
		if _, err := s.scheduler.Every(DefaultCleanupInterval).WaitForSchedule().Do(s.cleanup); err != nil {
			return fmt.Errorf("failed to schedule rate limiter cleanup: %w", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops all jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("scheduler stopped")
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}

func (s *Scheduler) reloadCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.runReload(ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled catalog reload failed")
	}
}

// runReload performs one reload. A reload that is already running is not an
// error.
func (s *Scheduler) runReload(ctx context.Context) error {
	start := time.Now()
	err := s.reloader.Reload(ctx)
	if errors.Is(err, catalog.ErrReloadInProgress) {
		s.logger.Info().Msg("reload already in progress, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("catalog reloaded")
	return nil
}

func (s *Scheduler) cleanup() {
	if removed := s.cleaner.Cleanup(); removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("idle rate limit buckets removed")
	}
}
