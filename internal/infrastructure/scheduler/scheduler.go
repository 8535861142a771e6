// Package scheduler runs the background ingestion jobs: the retry sweep
// over parked webhook deliveries and the poll cycle for pull providers.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"poolhub/internal/application/ingestion/usecases"
	vo "poolhub/internal/domain/integration/valueobjects"
	"poolhub/internal/shared/logger"
)

// Config tunes the job cadence. Zero values fall back to sane defaults.
type Config struct {
	SweepInterval time.Duration
	PollInterval  time.Duration
}

// Scheduler owns the gocron instance and the ingestion jobs attached to it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	retryUC   *usecases.RetryFailuresUseCase
	pollUC    *usecases.PollReadingsUseCase
	cfg       Config
	logger    logger.Interface
}

func New(retryUC *usecases.RetryFailuresUseCase, pollUC *usecases.PollReadingsUseCase, cfg Config, log logger.Interface) *Scheduler {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		retryUC:   retryUC,
		pollUC:    pollUC,
		cfg:       cfg,
		logger:    log,
	}
}

// Start schedules the jobs and starts the underlying scheduler. Jobs run in
// singleton mode so a slow sweep never overlaps the next one.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.cfg.SweepInterval).SingletonMode().Do(s.runSweep); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(s.cfg.PollInterval).SingletonMode().Do(s.runPoll); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Infow("scheduler started",
		"sweep_interval", s.cfg.SweepInterval,
		"poll_interval", s.cfg.PollInterval,
	)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.retryUC.Execute(ctx, usecases.RetryFailuresCommand{})
	if err != nil {
		s.logger.Errorw("retry sweep failed", "error", err)
		return
	}

	if result.Processed > 0 {
		s.logger.Infow("retry sweep finished",
			"processed", result.Processed,
			"resolved", result.Resolved,
			"dead", result.Dead,
			"pending", result.Pending,
		)
	}
}

func (s *Scheduler) runPoll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, provider := range vo.ActiveProviders() {
		if !provider.SupportsPolling() {
			continue
		}

		result, err := s.pollUC.Execute(ctx, provider)
		if err != nil {
			s.logger.Errorw("poll cycle failed", "provider", provider, "error", err)
			continue
		}

		if result.Polled > 0 {
			s.logger.Infow("poll cycle finished",
				"provider", provider,
				"polled", result.Polled,
				"ingested", result.Ingested,
				"errors", result.Errors,
			)
		}
	}
}
