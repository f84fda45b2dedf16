package rules

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// ProjectDeletionGuard enforces R1: a project may be deleted only when it
// owns no task with a status other than DONE. A project with no tasks at all
// is always deletable.
type ProjectDeletionGuard struct {
	tasks IncompleteCounter
}

func NewProjectDeletionGuard(tasks IncompleteCounter) *ProjectDeletionGuard {
	return &ProjectDeletionGuard{tasks: tasks}
}

// CanDelete is the read-only predicate; deletion itself is a store operation
// gated by it.
func (g *ProjectDeletionGuard) CanDelete(ctx context.Context, projectID string) (bool, error) {
	incomplete, err := g.tasks.CountIncomplete(ctx, projectID)
	if err != nil {
		return false, err
	}
	return incomplete == 0, nil
}

// Validate returns the R1 rule violation when deletion is blocked.
func (g *ProjectDeletionGuard) Validate(ctx context.Context, projectID string) error {
	ok, err := g.CanDelete(ctx, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewRuleViolation(domain.RuleProjectDeletion,
			"cannot delete project with active tasks")
	}
	return nil
}

// TaskDeletionGuard enforces R6: the existence of any direct child,
// regardless of its status, blocks task deletion. Stricter than the R7
// completion guard.
type TaskDeletionGuard struct {
	children ChildLister
}

func NewTaskDeletionGuard(children ChildLister) *TaskDeletionGuard {
	return &TaskDeletionGuard{children: children}
}

func (g *TaskDeletionGuard) Validate(ctx context.Context, taskID string) error {
	subtasks, err := g.children.ListByParent(ctx, taskID)
	if err != nil {
		return err
	}
	if len(subtasks) > 0 {
		return domain.NewRuleViolation(domain.RuleTaskDeletion,
			"cannot delete task with subtasks")
	}
	return nil
}
