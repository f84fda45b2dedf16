// Package project implements project commands with the duplicate-name guard
// and the R1 deletion guard.
package project

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase/rules"
)

type UseCase struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	deletion *rules.ProjectDeletionGuard
	logger   *zap.Logger
}

func New(
	projects repository.ProjectRepository,
	users repository.UserRepository,
	tasks rules.IncompleteCounter,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		users:    users,
		deletion: rules.NewProjectDeletionGuard(tasks),
		logger:   logger,
	}
}

type CreateInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	MemberIDs   []string
}

type UpdateInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	MemberIDs   []string
}

func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if input.StartDate.IsZero() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "start date is required")
	}

	if err := uc.checkDuplicateName(ctx, name, ""); err != nil {
		return nil, err
	}
	if err := uc.resolveMembers(ctx, input.MemberIDs); err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MemberIDs:   input.MemberIDs,
	}

	created, err := uc.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("project created", zap.String("project_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, id string, input UpdateInput) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != project.Name {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
		}
		if err := uc.checkDuplicateName(ctx, name, project.ID); err != nil {
			return nil, err
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.MemberIDs != nil {
		if err := uc.resolveMembers(ctx, input.MemberIDs); err != nil {
			return nil, err
		}
		project.MemberIDs = input.MemberIDs
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	uc.logger.Info("project updated", zap.String("project_id", project.ID))
	return project, nil
}

// Delete removes the project unless it still owns incomplete tasks (R1).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.projects.GetByID(ctx, id); err != nil {
		return err
	}
	if err := uc.deletion.Validate(ctx, id); err != nil {
		return err
	}
	if err := uc.projects.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

// CanDelete exposes the R1 predicate without performing the deletion.
func (uc *UseCase) CanDelete(ctx context.Context, id string) (bool, error) {
	if _, err := uc.projects.GetByID(ctx, id); err != nil {
		return false, err
	}
	return uc.deletion.CanDelete(ctx, id)
}

// AddMember attaches a user; attaching twice is a duplicate.
func (uc *UseCase) AddMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if project.HasMember(userID) {
		return nil, domain.NewDuplicate("project member", "user_id", userID)
	}

	project.MemberIDs = append(project.MemberIDs, userID)
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// RemoveMember detaches a user; removing a non-member is a not-found error.
func (uc *UseCase) RemoveMember(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if !project.HasMember(userID) {
		return nil, domain.NewNotFound("project member", userID)
	}

	kept := project.MemberIDs[:0]
	for _, id := range project.MemberIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	project.MemberIDs = kept
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return uc.projects.GetByID(ctx, id)
}

func (uc *UseCase) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	return uc.projects.List(ctx, filter)
}

// ListByMember returns the projects a user belongs to.
func (uc *UseCase) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.projects.List(ctx, repository.ProjectFilter{MemberID: userID})
}

func (uc *UseCase) checkDuplicateName(ctx context.Context, name, excludeID string) error {
	existing, err := uc.projects.List(ctx, repository.ProjectFilter{})
	if err != nil {
		return err
	}
	named := make([]rules.Named, len(existing))
	for i, p := range existing {
		named[i] = rules.Named{ID: p.ID, Value: p.Name}
	}
	if rules.IsDuplicate(name, excludeID, named) {
		return domain.NewDuplicate("project", "name", name)
	}
	return nil
}

func (uc *UseCase) resolveMembers(ctx context.Context, memberIDs []string) error {
	for _, id := range memberIDs {
		if _, err := uc.users.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
