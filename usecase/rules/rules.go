// Package rules implements the domain rule engine: cycle detection over the
// task parent chain, membership-gated assignment, status transition guards,
// case-insensitive uniqueness checks and deletion guards. Validators are
// pure over store reads; they never mutate and report violations as typed
// domain errors.
package rules

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// TaskReader is the narrow store surface the validators need for point
// lookups. Validators re-read through the same handle the eventual write
// uses, so they see the graph as it will be at write time.
type TaskReader interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
}

// ChildLister resolves the direct children of a task.
type ChildLister interface {
	ListByParent(ctx context.Context, parentTaskID string) ([]domain.Task, error)
}

// ProjectReader resolves projects for membership and deletion checks.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
}

// IncompleteCounter counts tasks in a project whose status is not DONE.
type IncompleteCounter interface {
	CountIncomplete(ctx context.Context, projectID string) (int, error)
}
