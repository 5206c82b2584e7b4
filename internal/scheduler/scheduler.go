// Package scheduler fires the daily checklist generation run at a fixed
// wall-clock UTC time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
)

// generationRunner runs one generation pass.
type generationRunner interface {
	Run(ctx context.Context, asOf time.Time, source domain.TriggerSource) (generation.Report, error)
}

// Scheduler triggers the generation service on a daily cron schedule.
// All times are UTC.
type Scheduler struct {
	cron       *cron.Cron
	generator  generationRunner
	runTimeout time.Duration
	log        *slog.Logger
}

// New creates a scheduler firing daily at dailyRunTime ("HH:MM", UTC).
func New(generator generationRunner, dailyRunTime string, runTimeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		generator:  generator,
		runTimeout: runTimeout,
		log:        logger.With("component", "scheduler"),
	}

	spec, err := dailySpec(dailyRunTime)
	if err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("register daily job: %w", err)
	}
	return s, nil
}

// Start begins firing jobs. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// runOnce executes a single scheduled generation pass. Failures are
// logged, never fatal; the next run proceeds regardless.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	asOf := time.Now().UTC()
	report, err := s.generator.Run(ctx, asOf, domain.TriggerSourceScheduled)
	if err != nil {
		s.log.ErrorContext(ctx, "generation run failed", slog.String("error", err.Error()))
		return
	}

	s.log.InfoContext(ctx, "generation run finished",
		slog.Time("as_of", asOf),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failures", len(report.Failures)),
	)
}

// dailySpec converts wall-clock "HH:MM" into a standard cron spec.
func dailySpec(timeStr string) (string, error) {
	tod, err := domain.ParseTimeOfDay(timeStr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", tod.Minute, tod.Hour), nil
}
