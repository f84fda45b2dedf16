package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/infrastructure/spool"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// SpoolerConfig controls how frequently the spool is drained.
type SpoolerConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// HistorySpooler persists task change records. Entries go straight to the
// history repository while the primary store is reachable and fall back to
// the on-disk spool otherwise; a cron job drains the spool in the background.
type HistorySpooler struct {
	store   *spool.Store
	monitor ConnectionHealth
	history repository.HistoryRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     SpoolerConfig
}

var _ usecase.HistoryRecorder = (*HistorySpooler)(nil)

func NewHistorySpooler(
	store *spool.Store,
	monitor ConnectionHealth,
	history repository.HistoryRepository,
	logger *zap.Logger,
	cfg SpoolerConfig,
) *HistorySpooler {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hs := &HistorySpooler{
		store:   store,
		monitor: monitor,
		history: history,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = hs.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := hs.Drain(ctx); err != nil {
			hs.logger.Error("history spool drain failed", zap.Error(err))
		}
	})

	return hs
}

// Start launches the cron scheduler.
func (hs *HistorySpooler) Start() {
	if hs == nil || hs.cron == nil {
		return
	}
	hs.cron.Start()
	hs.logger.Info("history spooler started")
}

// Stop gracefully stops the scheduler.
func (hs *HistorySpooler) Stop(ctx context.Context) {
	if hs == nil || hs.cron == nil {
		return
	}
	stopCtx := hs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	hs.logger.Info("history spooler stopped")
}

// Record attempts to append the entry immediately and falls back to spooling it.
func (hs *HistorySpooler) Record(ctx context.Context, entry domain.TaskHistory) error {
	if hs == nil {
		return fmt.Errorf("history spooler not configured")
	}

	if hs.monitor == nil || hs.monitor.IsOnline() {
		if err := hs.history.Append(ctx, &entry); err == nil {
			return nil
		} else {
			hs.logger.Warn("immediate history append failed, spooling", zap.Error(err))
		}
	}
	if hs.store == nil {
		return fmt.Errorf("history spool not configured")
	}
	return hs.store.Enqueue(spool.Item{Entry: entry})
}

// Drain flushes spooled entries to the history repository.
func (hs *HistorySpooler) Drain(ctx context.Context) error {
	if hs == nil || hs.store == nil {
		return nil
	}
	if hs.monitor != nil && !hs.monitor.IsOnline() {
		hs.logger.Debug("skipping spool drain (offline)")
		return nil
	}

	items, err := hs.store.GetBatch(hs.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		entry := item.Entry
		if err := hs.history.Append(ctx, &entry); err != nil {
			hs.logger.Error("failed to persist spooled history entry",
				zap.String("item_id", item.ID),
				zap.String("task_id", entry.TaskID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= hs.cfg.MaxRetries {
				hs.logger.Warn("dropping history entry (max retries reached)", zap.String("item_id", item.ID))
				_ = hs.store.Remove(item)
				continue
			}

			if err := hs.store.Remove(item); err != nil {
				hs.logger.Warn("failed to remove spool item", zap.Error(err))
			}
			if err := hs.store.Requeue(item); err != nil {
				hs.logger.Error("failed to requeue spool item", zap.Error(err))
			}
			continue
		}

		if err := hs.store.Remove(item); err != nil {
			hs.logger.Warn("failed to purge drained spool item", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of spooled entries.
func (hs *HistorySpooler) Size() int {
	if hs == nil || hs.store == nil {
		return 0
	}
	size, err := hs.store.Size()
	if err != nil {
		return 0
	}
	return size
}
