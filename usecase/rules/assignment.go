package rules

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// AssignmentValidator enforces that a task assignee is a member of the
// project owning the task (R3). Pure predicate over store reads.
type AssignmentValidator struct {
	tasks    TaskReader
	projects ProjectReader
}

func NewAssignmentValidator(tasks TaskReader, projects ProjectReader) *AssignmentValidator {
	return &AssignmentValidator{
		tasks:    tasks,
		projects: projects,
	}
}

// CanAssign reports whether userID is a member of the project owning taskID.
func (v *AssignmentValidator) CanAssign(ctx context.Context, taskID, userID string) (bool, error) {
	task, err := v.tasks.GetByID(ctx, taskID)
	if err != nil {
		return false, err
	}
	return v.CanAssignToProject(ctx, task.ProjectID, userID)
}

// CanAssignToProject is the membership check keyed directly by project,
// used during task creation before the task exists.
func (v *AssignmentValidator) CanAssignToProject(ctx context.Context, projectID, userID string) (bool, error) {
	project, err := v.projects.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return project.HasMember(userID), nil
}

// Validate returns InvalidAssignment when the membership check fails.
func (v *AssignmentValidator) Validate(ctx context.Context, projectID, userID string) error {
	ok, err := v.CanAssignToProject(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewInvalidAssignment("user must be a project member to be assigned tasks")
	}
	return nil
}
