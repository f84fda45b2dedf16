package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// HistoryRecorder abstracts the audit log so use cases stay storage-agnostic.
// Implementations must be append-only; entries are never updated.
type HistoryRecorder interface {
	Record(ctx context.Context, entry domain.TaskHistory) error
}
