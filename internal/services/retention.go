package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/infrastructure/spool"
	"github.com/taskforge/backend/repository"
)

// RetentionConfig controls the history retention sweep.
type RetentionConfig struct {
	// Schedule is a standard 5-field cron expression.
	Schedule       string
	RetentionDays  int
	SpoolRetention time.Duration
}

// RetentionSweeper prunes old task history rows and stale spool items on a
// cron schedule.
type RetentionSweeper struct {
	history repository.HistoryRepository
	store   *spool.Store
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RetentionConfig
	now     func() time.Time
}

func NewRetentionSweeper(
	history repository.HistoryRepository,
	store *spool.Store,
	logger *zap.Logger,
	cfg RetentionConfig,
) *RetentionSweeper {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 3 * * *"
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 365
	}
	if cfg.SpoolRetention <= 0 {
		cfg.SpoolRetention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &RetentionSweeper{
		history: history,
		store:   store,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(),
		now:     time.Now,
	}

	_, err := rs.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := rs.Sweep(ctx); err != nil {
			rs.logger.Error("history retention sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		rs.logger.Error("invalid retention schedule", zap.String("schedule", cfg.Schedule), zap.Error(err))
	}

	return rs
}

// Start launches the cron scheduler.
func (rs *RetentionSweeper) Start() {
	if rs == nil || rs.cron == nil {
		return
	}
	rs.cron.Start()
	rs.logger.Info("retention sweeper started",
		zap.String("schedule", rs.cfg.Schedule),
		zap.Int("retention_days", rs.cfg.RetentionDays))
}

// Stop gracefully stops the scheduler.
func (rs *RetentionSweeper) Stop(ctx context.Context) {
	if rs == nil || rs.cron == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rs.logger.Info("retention sweeper stopped")
}

// Sweep removes history rows older than the retention window and cleans up
// stale spool items.
func (rs *RetentionSweeper) Sweep(ctx context.Context) error {
	cutoff := rs.now().AddDate(0, 0, -rs.cfg.RetentionDays)
	removed, err := rs.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		rs.logger.Info("pruned task history", zap.Int64("rows", removed), zap.Time("cutoff", cutoff))
	}

	if rs.store != nil {
		if err := rs.store.Cleanup(rs.now().Add(-rs.cfg.SpoolRetention)); err != nil {
			rs.logger.Warn("spool cleanup failed", zap.Error(err))
		}
	}
	return nil
}
