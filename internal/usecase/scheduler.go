package usecase

import (
	"context"
	"log/slog"
	"time"

	"G2BLeadMiner/internal/ports"
)

// Scheduler re-runs the pipeline over a trailing window whenever the
// cron-like driver fires.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	trailing time.Duration
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs. Each
// trigger covers the trailing duration ending at the trigger instant.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, trailing time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, trailing: trailing, logger: log}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		start := trigger.Add(-s.trailing)
		if _, err := s.pipeline.Run(ctx, start, trigger); err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "error", err)
			}
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
