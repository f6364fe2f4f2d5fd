package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/draft-board/internal/observability"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

// BackupScheduler runs a backup cycle on a fixed interval. Overlapping ticks
// are skipped.
type BackupScheduler struct {
	cron     *cron.Cron
	backups  *usecase.BackupService
	interval time.Duration
	logger   *logging.Logger
}

func NewBackupScheduler(backups *usecase.BackupService, interval time.Duration, logger *logging.Logger) *BackupScheduler {
	if logger == nil {
		logger = logging.Default()
	}

	cronLog := cronLogger{logger: logger}
	return &BackupScheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		backups:  backups,
		interval: interval,
		logger:   logger,
	}
}

func (s *BackupScheduler) Start() error {
	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("schedule backup %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Info("backup scheduler started", "interval", s.interval.String())
	return nil
}

// Stop waits for a running cycle to finish.
func (s *BackupScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("backup scheduler stopped")
}

func (s *BackupScheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	var err error
	observability.WithProfileLabels(ctx, func(ctx context.Context) {
		err = s.backups.RunCycle(ctx)
	}, "job", "backup_cycle")
	if err != nil {
		s.logger.WarnContext(ctx, "backup cycle failed", "error", err)
		return
	}

	status := s.backups.Status()
	s.logger.DebugContext(ctx, "backup cycle done", "cycles", status.Cycles, "next_slot", status.NextSlot)
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
