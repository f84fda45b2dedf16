package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// TaskFilter narrows task listings. Empty fields impose no constraint; a
// Limit of zero or less returns the full result set. The duplicate guards
// and the search and report scans rely on that unbounded read.
type TaskFilter struct {
	ProjectID  string
	AssigneeID string
	Status     domain.TaskStatus
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// ListByParent returns the direct children of a task.
	ListByParent(ctx context.Context, parentTaskID string) ([]domain.Task, error)
	// CountIncomplete returns the number of tasks in the project whose
	// status is not DONE.
	CountIncomplete(ctx context.Context, projectID string) (int, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Update persists the task if the stored version matches task.Version,
	// bumping the version on success. A stale version yields
	// domain.ErrConflict.
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
