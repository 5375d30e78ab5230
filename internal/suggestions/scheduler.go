package suggestions

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tylerquinn/scoutline/pkg/logger"
)

const defaultRefreshSpec = "@daily"

// Scheduler optionally drives the daily refresh from inside the process for
// deployments without an external cron caller. The HTTP cron endpoint remains
// the primary trigger; this is an alternative, not an addition.
type Scheduler struct {
	batch *DailyBatch
	cron  *cron.Cron
	spec  string
	log   *zap.Logger
}

// SchedulerOption customises a Scheduler.
type SchedulerOption func(*Scheduler)

// WithRefreshSpec overrides the cron specification for the daily refresh.
func WithRefreshSpec(spec string) SchedulerOption {
	return func(s *Scheduler) {
		if spec != "" {
			s.spec = spec
		}
	}
}

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) SchedulerOption {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// NewScheduler constructs a Scheduler around the daily batch.
func NewScheduler(batch *DailyBatch, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		batch: batch,
		spec:  defaultRefreshSpec,
		log:   logger.WithModule("suggestions.scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s
}

// Start registers the refresh job and launches the scheduler.
func (s *Scheduler) Start() error {
	if s.batch == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.batch.Run(context.Background()); err != nil {
			s.log.Warn("scheduled daily refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running job to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}
