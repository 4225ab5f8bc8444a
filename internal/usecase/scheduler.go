package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsBulletin/internal/ports"
)

// RunFunc performs one scheduled bulletin run for the trigger time.
type RunFunc func(ctx context.Context, trigger time.Time) error

// Scheduler wires the cron driver with a bulletin run.
type Scheduler struct {
	driver ports.Scheduler
	run    RunFunc
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, run RunFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, run: run, logger: logger}
}

// Start registers the run with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.run(ctx, trigger); err != nil && s.logger != nil {
			s.logger.Error("scheduled bulletin failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
