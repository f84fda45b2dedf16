package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// HistoryRepository stores the append-only task change log.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.TaskHistory) error
	// ListByTask returns entries newest first.
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskHistory, error)
	ListByUser(ctx context.Context, userID string) ([]domain.TaskHistory, error)
	// DeleteOlderThan purges entries with a timestamp before the cutoff and
	// returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
