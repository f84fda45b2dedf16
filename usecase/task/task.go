// Package task orchestrates task commands: every validator runs before any
// store mutation, and a failed validation aborts the command with no partial
// write.
package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
	"github.com/taskforge/backend/usecase/rules"
	"github.com/taskforge/backend/usecase/search"
)

// Config tunes rule engine behavior.
type Config struct {
	// MaxHierarchyDepth bounds the cycle-detection ancestor walk.
	MaxHierarchyDepth int
}

// StatsInvalidator drops cached project statistics after a write that
// changes them. A nil invalidator means statistics expire by TTL only.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, projectID string) error
}

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	tags     repository.TagRepository
	history  usecase.HistoryRecorder
	stats    StatsInvalidator

	hierarchy  *rules.HierarchyValidator
	assignment *rules.AssignmentValidator
	transition *rules.StatusTransitionEngine
	deletion   *rules.TaskDeletionGuard
	compiler   *search.Compiler

	logger *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	tags repository.TagRepository,
	history usecase.HistoryRecorder,
	stats StatsInvalidator,
	cfg Config,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:      tasks,
		projects:   projects,
		users:      users,
		tags:       tags,
		history:    history,
		stats:      stats,
		hierarchy:  rules.NewHierarchyValidator(tasks, cfg.MaxHierarchyDepth, logger),
		assignment: rules.NewAssignmentValidator(tasks, projects),
		transition: rules.NewStatusTransitionEngine(tasks),
		deletion:   rules.NewTaskDeletionGuard(tasks),
		compiler:   search.NewCompiler(),
		logger:     logger,
	}
}

// CreateInput carries the fields of a task creation command.
type CreateInput struct {
	Title        string
	Description  string
	Priority     domain.TaskPriority
	DueDate      *time.Time
	ProjectID    string
	AssigneeID   string
	ParentTaskID string
	TagIDs       []string
}

// UpdateInput carries the changed fields of an update command. Nil pointers
// leave the field untouched; a nil TagIDs slice leaves tags untouched.
type UpdateInput struct {
	Title        *string
	Description  *string
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	AssigneeID   *string
	ParentTaskID *string
	TagIDs       []string
}

// Create validates the referenced project, assignee, parent and tags, then
// persists the task. New tasks start in TODO. No history rows are written at
// creation; only subsequent field changes are recorded.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}

	project, err := uc.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := validateDueDate(input.DueDate, project); err != nil {
		return nil, err
	}

	if input.AssigneeID != "" {
		if _, err := uc.users.GetByID(ctx, input.AssigneeID); err != nil {
			return nil, err
		}
		if err := uc.assignment.Validate(ctx, project.ID, input.AssigneeID); err != nil {
			return nil, err
		}
	}

	if input.ParentTaskID != "" {
		parent, err := uc.tasks.GetByID(ctx, input.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != project.ID {
			return nil, domain.NewRuleViolation(domain.RuleSameProject,
				"parent task must be in the same project as the subtask")
		}
	}

	if err := uc.resolveTags(ctx, input.TagIDs); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task priority: "+string(priority))
	}

	task := &domain.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       domain.StatusTodo,
		Priority:     priority,
		DueDate:      input.DueDate,
		ProjectID:    project.ID,
		AssigneeID:   input.AssigneeID,
		ParentTaskID: input.ParentTaskID,
		TagIDs:       input.TagIDs,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx, created.ProjectID)

	uc.logger.Info("task created",
		zap.String("task_id", created.ID),
		zap.String("project_id", created.ProjectID))
	return created, nil
}

// Update applies the changed fields after validating each one, persists the
// task under its version guard and appends one history row per changed
// field.
func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []domain.TaskHistory
	record := func(field, oldValue, newValue string) {
		changes = append(changes, domain.TaskHistory{
			TaskID:    task.ID,
			ChangedBy: actorID,
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
		})
	}

	if input.Title != nil && *input.Title != task.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
		}
		record(domain.FieldTitle, task.Title, *input.Title)
		task.Title = *input.Title
	}
	if input.Description != nil && *input.Description != task.Description {
		record(domain.FieldDescription, task.Description, *input.Description)
		task.Description = *input.Description
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		if !input.Priority.Valid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task priority: "+string(*input.Priority))
		}
		record(domain.FieldPriority, string(task.Priority), string(*input.Priority))
		task.Priority = *input.Priority
	}
	if input.DueDate != nil && !equalTime(task.DueDate, input.DueDate) {
		project, err := uc.projects.GetByID(ctx, task.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := validateDueDate(input.DueDate, project); err != nil {
			return nil, err
		}
		record(domain.FieldDueDate, formatTime(task.DueDate), formatTime(input.DueDate))
		task.DueDate = input.DueDate
	}
	if input.AssigneeID != nil && *input.AssigneeID != task.AssigneeID {
		if *input.AssigneeID != "" {
			if _, err := uc.users.GetByID(ctx, *input.AssigneeID); err != nil {
				return nil, err
			}
			if err := uc.assignment.Validate(ctx, task.ProjectID, *input.AssigneeID); err != nil {
				return nil, err
			}
		}
		record(domain.FieldAssignee, task.AssigneeID, *input.AssigneeID)
		task.AssigneeID = *input.AssigneeID
	}
	if input.ParentTaskID != nil && *input.ParentTaskID != task.ParentTaskID {
		if *input.ParentTaskID != "" {
			if err := uc.hierarchy.ValidateParent(ctx, task, *input.ParentTaskID); err != nil {
				return nil, err
			}
		}
		record(domain.FieldParentTask, task.ParentTaskID, *input.ParentTaskID)
		task.ParentTaskID = *input.ParentTaskID
	}
	if input.TagIDs != nil && !equalStrings(task.TagIDs, input.TagIDs) {
		if err := uc.resolveTags(ctx, input.TagIDs); err != nil {
			return nil, err
		}
		record(domain.FieldTags, strings.Join(task.TagIDs, ","), strings.Join(input.TagIDs, ","))
		task.TagIDs = input.TagIDs
	}

	if len(changes) == 0 {
		return task, nil
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, changes)
	uc.invalidateStats(ctx, task.ProjectID)

	uc.logger.Info("task updated",
		zap.String("task_id", task.ID),
		zap.Int("changed_fields", len(changes)))
	return task, nil
}

// ChangeStatus runs the transition guard, persists the new status and
// appends a status history row.
func (uc *UseCase) ChangeStatus(ctx context.Context, id string, status domain.TaskStatus, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.transition.Validate(ctx, task, status); err != nil {
		return nil, err
	}

	if task.Status == status {
		return task, nil
	}

	old := task.Status
	task.Status = status
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, []domain.TaskHistory{{
		TaskID:    task.ID,
		ChangedBy: actorID,
		Field:     domain.FieldStatus,
		OldValue:  string(old),
		NewValue:  string(status),
	}})
	uc.invalidateStats(ctx, task.ProjectID)

	uc.logger.Info("task status changed",
		zap.String("task_id", task.ID),
		zap.String("from", string(old)),
		zap.String("to", string(status)))
	return task, nil
}

// Assign sets the assignee after the membership check (R3).
func (uc *UseCase) Assign(ctx context.Context, taskID, userID, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := uc.assignment.Validate(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}
	if task.AssigneeID == userID {
		return task, nil
	}

	old := task.AssigneeID
	task.AssigneeID = userID
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, []domain.TaskHistory{{
		TaskID:    task.ID,
		ChangedBy: actorID,
		Field:     domain.FieldAssignee,
		OldValue:  old,
		NewValue:  userID,
	}})
	return task, nil
}

// Unassign clears the assignee. No membership check applies.
func (uc *UseCase) Unassign(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssigneeID == "" {
		return task, nil
	}

	old := task.AssigneeID
	task.AssigneeID = ""
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, []domain.TaskHistory{{
		TaskID:    task.ID,
		ChangedBy: actorID,
		Field:     domain.FieldAssignee,
		OldValue:  old,
		NewValue:  "",
	}})
	return task, nil
}

// Delete removes the task unless it has direct subtasks (R6).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.deletion.Validate(ctx, id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateStats(ctx, task.ProjectID)
	uc.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// AddTag attaches an existing tag; attaching a tag twice is a duplicate.
func (uc *UseCase) AddTag(ctx context.Context, taskID, tagID, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.tags.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	if task.HasTag(tagID) {
		return nil, domain.NewDuplicate("task tag", "tag_id", tagID)
	}

	old := strings.Join(task.TagIDs, ",")
	task.TagIDs = append(task.TagIDs, tagID)
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, []domain.TaskHistory{{
		TaskID:    task.ID,
		ChangedBy: actorID,
		Field:     domain.FieldTags,
		OldValue:  old,
		NewValue:  strings.Join(task.TagIDs, ","),
	}})
	return task, nil
}

// RemoveTag detaches a tag; removing an absent tag is a not-found error.
func (uc *UseCase) RemoveTag(ctx context.Context, taskID, tagID, actorID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.tags.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	if !task.HasTag(tagID) {
		return nil, domain.NewNotFound("task tag", tagID)
	}

	old := strings.Join(task.TagIDs, ",")
	kept := task.TagIDs[:0]
	for _, id := range task.TagIDs {
		if id != tagID {
			kept = append(kept, id)
		}
	}
	task.TagIDs = kept
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	uc.recordAll(ctx, []domain.TaskHistory{{
		TaskID:    task.ID,
		ChangedBy: actorID,
		Field:     domain.FieldTags,
		OldValue:  old,
		NewValue:  strings.Join(task.TagIDs, ","),
	}})
	return task, nil
}

// Search filters the task collection with the compiled criteria. Results
// come back ascending by due date unless the caller orders otherwise.
func (uc *UseCase) Search(ctx context.Context, criteria domain.TaskSearchCriteria) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: criteria.ProjectID})
	if err != nil {
		return nil, err
	}
	return uc.compiler.Apply(tasks, criteria), nil
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	if _, err := uc.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
}

func (uc *UseCase) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.tasks.List(ctx, repository.TaskFilter{AssigneeID: userID})
}

// Subtasks returns the direct children of a task.
func (uc *UseCase) Subtasks(ctx context.Context, parentTaskID string) ([]domain.Task, error) {
	if _, err := uc.tasks.GetByID(ctx, parentTaskID); err != nil {
		return nil, err
	}
	return uc.tasks.ListByParent(ctx, parentTaskID)
}

func (uc *UseCase) resolveTags(ctx context.Context, tagIDs []string) error {
	for _, id := range tagIDs {
		if _, err := uc.tags.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UseCase) recordAll(ctx context.Context, entries []domain.TaskHistory) {
	if uc.history == nil {
		return
	}
	for _, entry := range entries {
		if err := uc.history.Record(ctx, entry); err != nil {
			uc.logger.Error("failed to record task history",
				zap.String("task_id", entry.TaskID),
				zap.String("field", entry.Field),
				zap.Error(err))
		}
	}
}

// invalidateStats drops the project's cached statistics. Assignment and tag
// writes leave the cached counters intact, so they skip this.
func (uc *UseCase) invalidateStats(ctx context.Context, projectID string) {
	if uc.stats == nil {
		return
	}
	if err := uc.stats.Invalidate(ctx, projectID); err != nil {
		uc.logger.Warn("failed to invalidate project statistics",
			zap.String("project_id", projectID),
			zap.Error(err))
	}
}

func validateDueDate(dueDate *time.Time, project *domain.Project) error {
	if dueDate == nil {
		return nil
	}
	if dueDate.Before(project.StartDate) {
		return domain.NewRuleViolation(domain.RuleDueDate,
			"due date must not be before the project start date")
	}
	return nil
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
