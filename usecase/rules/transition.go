package rules

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// StatusTransitionEngine guards task status changes. Every transition
// between distinct states is legal except moving to DONE while a direct
// child is incomplete (R7). There is no terminal state.
type StatusTransitionEngine struct {
	children ChildLister
}

func NewStatusTransitionEngine(children ChildLister) *StatusTransitionEngine {
	return &StatusTransitionEngine{children: children}
}

// Validate checks the transition of task to the target status. The task's
// status is left untouched; the caller persists only on nil error.
func (e *StatusTransitionEngine) Validate(ctx context.Context, task *domain.Task, target domain.TaskStatus) error {
	if !target.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown task status: "+string(target))
	}
	if target != domain.StatusDone {
		return nil
	}

	subtasks, err := e.children.ListByParent(ctx, task.ID)
	if err != nil {
		return err
	}
	for _, sub := range subtasks {
		if sub.Status != domain.StatusDone {
			return domain.NewRuleViolation(domain.RuleCompletion,
				"cannot complete task with incomplete subtasks")
		}
	}
	return nil
}
