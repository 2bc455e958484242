package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"timetable_syncer/internal/domain"
)

// Syncer runs one synchronization cycle.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

type Config struct {
	// Schedule is a five-field cron expression or a descriptor such as
	// "@hourly" or "@every 30m".
	Schedule string
	// Timeout bounds a single cycle. Zero means no bound.
	Timeout  time.Duration
	Location *time.Location
}

type Scheduler struct {
	syncer   Syncer
	spec     string
	schedule cron.Schedule
	parser   cron.Parser
	timeout  time.Duration
	loc      *time.Location
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		syncer:   syncer,
		spec:     cfg.Schedule,
		schedule: schedule,
		parser:   parser,
		timeout:  cfg.Timeout,
		loc:      loc,
		logger:   logger.With("component", "scheduler"),
	}, nil
}

// Start runs a cycle immediately and then on every schedule tick until ctx
// is cancelled. Ticks that fire while a cycle is still running are skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "schedule", s.spec, "timezone", s.loc.String())

	_, _ = s.RunOnce(ctx)

	logger := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithParser(s.parser),
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.RunOnce(ctx)
	}))
	c.Start()

	s.logger.Info("next sync scheduled", "at", s.schedule.Next(time.Now().In(s.loc)))

	<-ctx.Done()

	// Wait for a running cycle to observe the cancellation.
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

// RunOnce runs a single cycle bounded by the configured timeout.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.SyncStats, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stats, err := s.syncer.Sync(ctx)
	if err != nil {
		s.logger.Error("sync failed", "error", err)
		return stats, err
	}
	return stats, nil
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
